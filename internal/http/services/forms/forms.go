// Package forms concentra las reglas de negocio de formularios que el
// backend legado repartía entre pantallas: estado calculado del botón y
// contacto a mostrar según compañía.
package forms

import (
	"fmt"
	"time"
)

// Estados posibles de un formulario.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
	StatusOverdue   = "overdue"
	StatusDisabled  = "disabled"
)

// editCutoffDays: los formularios editables se congelan 30 días antes de la
// fecha de corte (due date para guías, salida para vendors).
const editCutoffDays = 30

// Status es el estado calculado que consume el template.
type Status struct {
	Status      string
	ButtonText  string
	ButtonClass string
	IsClickable bool
	URL         string
}

// GuideStatus calcula el estado de un formulario de guía.
//
// Reglas del legado:
//   - recibido y editable, pasado el corte  => disabled (gris)
//   - recibido y editable, antes del corte  => completed, editable
//   - recibido y no editable                => completed, solo lectura
//   - no recibido, vencido                  => expired (rojo)
//   - no recibido                           => pending (azul)
func GuideStatus(received, editableAfterSubmit bool, dueDate time.Time, url string, today time.Time) Status {
	if received {
		if editableAfterSubmit {
			if !dueDate.IsZero() && today.After(dueDate.AddDate(0, 0, -editCutoffDays)) {
				return Status{Status: StatusDisabled, ButtonText: "View Form", ButtonClass: "btn-form-disabled"}
			}
			return Status{Status: StatusCompleted, ButtonText: "Edit Form", ButtonClass: "btn-form-complete", IsClickable: true, URL: url}
		}
		return Status{Status: StatusCompleted, ButtonText: "View Form", ButtonClass: "btn-form-complete"}
	}
	if !dueDate.IsZero() && today.After(dueDate) {
		return Status{Status: StatusExpired, ButtonText: "Complete Form (Overdue)", ButtonClass: "btn-form-expired", IsClickable: true, URL: url}
	}
	return Status{Status: StatusPending, ButtonText: "Complete Form", ButtonClass: "btn-form-pending", IsClickable: true, URL: url}
}

// VendorStatus calcula el estado de un formulario de vendor. El corte de
// edición se mide contra la fecha de salida, no contra el vencimiento.
func VendorStatus(received, editableAfterSubmit bool, dueDate, departureDate time.Time, url string, today time.Time) Status {
	if received {
		if editableAfterSubmit {
			if !departureDate.IsZero() && !today.Before(departureDate.AddDate(0, 0, -editCutoffDays)) {
				return Status{Status: StatusDisabled, ButtonText: "View Form", ButtonClass: "btn-secondary"}
			}
			return Status{Status: StatusCompleted, ButtonText: "View/Edit Form", ButtonClass: "btn-success", IsClickable: true, URL: url}
		}
		return Status{Status: StatusCompleted, ButtonText: "View Form", ButtonClass: "btn-secondary"}
	}
	if !dueDate.IsZero() && !today.Before(dueDate) {
		return Status{Status: StatusOverdue, ButtonText: "Complete Form", ButtonClass: "btn-danger", IsClickable: true, URL: url}
	}
	return Status{Status: StatusPending, ButtonText: "Complete Form", ButtonClass: "btn-primary", IsClickable: true, URL: url}
}

// ─────────────────────────────────────────────────────────────────────────────
// Contactos por compañía
// ─────────────────────────────────────────────────────────────────────────────

// Contact es el contacto a mostrar junto a un formulario.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// ContactFields son los contactos crudos que trae el upstream por formulario.
type ContactFields struct {
	DevName  string
	DevEmail string
	DevPhone string
	OpsName  string
	OpsEmail string
	OpsPhone string
}

// developerCompanies enrutan las consultas al Trip Developer.
var developerCompanies = map[string]bool{"WT": true, "WTGUIDE": true}

// hiddenContactCompanies no muestran contacto en los formularios.
var hiddenContactCompanies = map[string]bool{"CJ": true, "JOB": true, "IOT": true, "WTAH": true}

// ShowContact reporta si la compañía muestra contacto.
func ShowContact(companyCode string) bool {
	return !hiddenContactCompanies[companyCode]
}

// ContactFor elige el contacto según compañía: WT/WTGUIDE usan el developer,
// el resto operaciones. Campos vacíos caen a los buzones genéricos.
func ContactFor(companyCode string, f ContactFields) Contact {
	if developerCompanies[companyCode] {
		return Contact{
			Name:  orDefault(f.DevName, "Development Team"),
			Email: orDefault(f.DevEmail, "developer@tourcube.com"),
			Phone: f.DevPhone,
		}
	}
	return Contact{
		Name:  orDefault(f.OpsName, "Operations Team"),
		Email: orDefault(f.OpsEmail, "operations@tourcube.com"),
		Phone: f.OpsPhone,
	}
}

// ContactLabel arma la leyenda que acompaña al formulario, o "" si no hay
// contacto que mostrar.
func ContactLabel(companyCode string, f ContactFields) string {
	if developerCompanies[companyCode] {
		if f.DevName == "" {
			return ""
		}
		return "Trip Developer: " + f.DevName
	}
	if f.OpsName == "" {
		return ""
	}
	if f.OpsPhone != "" {
		return fmt.Sprintf("Trip Contact: %s / %s", f.OpsName, f.OpsPhone)
	}
	return "Trip Contact: " + f.OpsName
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
