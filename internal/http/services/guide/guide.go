// Package guide arma las vistas del portal para usuarios guía a partir de
// los datos crudos del API de reservas.
package guide

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tourcube/guideportal/internal/http/services/forms"
	"github.com/tourcube/guideportal/internal/observability/logger"
	"github.com/tourcube/guideportal/internal/tourcube"
)

// Service resuelve las páginas de guía contra el upstream.
type Service struct {
	TC *tourcube.Client
}

func NewService(tc *tourcube.Client) *Service {
	return &Service{TC: tc}
}

// ─────────────────────────────────────────────────────────────────────────────
// View models
// ─────────────────────────────────────────────────────────────────────────────

// Trip es una fila de viaje en las tablas del home.
type Trip struct {
	TripDepartureID int64
	TripID          int64
	TourName        string
	Dates           string
	DepartureDate   time.Time
	GroupSize       int64
	TripLeaders     string
	DevName         string
	OpsName         string
}

// FormView es un formulario listo para renderizar.
type FormView struct {
	FormID              string
	FormName            string
	Description         string
	TripInfo            string
	DueDate             time.Time
	DepartureDate       time.Time
	Received            bool
	Required            bool
	EditableAfterSubmit bool
	URL                 string
	PDFURL              string
	FormType            string

	Contact      forms.Contact
	ContactLabel string
	ShowContact  bool
	Status       forms.Status
}

// Homepage es el modelo completo del home de guía.
type Homepage struct {
	GuideID           int64
	GuideName         string
	GuideImage        string
	FutureTrips       []Trip
	PastTrips         []Trip
	Forms             []FormView
	FormsPendingCount int
}

// DepartureView es el modelo de la página de salida.
type DepartureView struct {
	TripDepartureID    int64
	TripID             int64
	DepartureID        string
	TripName           string
	TripDates          string
	ThumbnailImage     string
	TripDeveloperName  string
	TripDeveloperEmail string

	Guides             []DepartureGuide
	Passengers         []Passenger
	TripDocuments      []Document
	DepartureDocuments []Document

	Forms                []FormView
	FormsToCompleteCount int
}

type DepartureGuide struct {
	GuideID   int64
	FirstName string
	LastName  string
	Email     string
}

func (g DepartureGuide) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

type Passenger struct {
	ClientID     int64
	ClientName   string
	Age          int64
	Gender       string
	Hometown     string
	NbrPastTrips int64
	Notes        string
}

type Document struct {
	Description string
	DocumentURL string
	TripYear    string
}

// DepartureSummary es una salida en la página de viaje.
type DepartureSummary struct {
	TripDepartureID int64
	Dates           string
	DepartureDate   time.Time
	Status          string
	Guides          string
	GuideIDs        string
	SignUps         int64
	Comment         string
	IsGuideOnTrip   bool
}

// TripView es el modelo de la página de viaje.
type TripView struct {
	TripID           int64
	TripName         string
	ThumbnailImage   string
	Documents        []Document
	FutureDepartures []DepartureSummary
	PastDepartures   []DepartureSummary
}

// ClientView es la ficha de un pasajero.
type ClientView struct {
	ClientID            int64
	FirstName           string
	LastName            string
	Email               string
	Hometown            string
	Gender              string
	Age                 int64
	Mobile              string
	NumberOfTrips       int64
	Medical             string
	Fitness             string
	DietaryRestrictions string
	DietaryPreferences  string
	PastTrips           string
	PastTripsWithLeader string
	FutureTrips         string
	Notes               string
}

// ─────────────────────────────────────────────────────────────────────────────
// Operaciones
// ─────────────────────────────────────────────────────────────────────────────

// Homepage trae home y formularios en paralelo y arma la vista. Los viajes
// pasados van del más reciente al más viejo.
func (s *Service) Homepage(ctx context.Context, creds tourcube.Credentials, companyCode string, guideID int64) (*Homepage, error) {
	var (
		home  *tourcube.GuideHomepage
		fresp *tourcube.FormsResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		home, err = s.TC.GuideHomepage(gctx, creds, guideID)
		return err
	})
	g.Go(func() error {
		var err error
		fresp, err = s.TC.GuideForms(gctx, creds, guideID, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &Homepage{
		GuideID:     guideID,
		GuideName:   home.Name,
		GuideImage:  home.GuideImage,
		FutureTrips: parseTrips(home.FutureTrips),
		PastTrips:   parseTrips(home.PastTrips),
	}
	sort.SliceStable(view.PastTrips, func(i, j int) bool {
		return view.PastTrips[i].DepartureDate.After(view.PastTrips[j].DepartureDate)
	})

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, f := range fresp.Forms {
		fv := buildFormView(f, companyCode, today)
		view.Forms = append(view.Forms, fv)
		if fv.Status.Status == forms.StatusPending {
			view.FormsPendingCount++
		}
	}
	return view, nil
}

// TripDeparture arma la página de salida para un guía o vendor. Si los
// formularios fallan, la página sale igual con la lista vacía.
func (s *Service) TripDeparture(ctx context.Context, creds tourcube.Credentials, companyCode string, departureID, userID int64, isVendor bool) (*DepartureView, error) {
	dep, err := s.TC.DeparturePage(ctx, creds, departureID, userID)
	if err != nil {
		return nil, err
	}

	view := &DepartureView{
		TripDepartureID:    departureID,
		TripID:             dep.TripID.Int64(),
		DepartureID:        dep.DepartureID,
		TripName:           dep.TripName,
		TripDates:          dep.TripDates,
		ThumbnailImage:     dep.ThumbNailImage,
		TripDeveloperName:  dep.TripDeveloperName,
		TripDeveloperEmail: dep.TripDeveloperEmail,
	}
	for _, g := range dep.Guides {
		view.Guides = append(view.Guides, DepartureGuide{
			GuideID:   g.GuideID.Int64(),
			FirstName: g.FirstName,
			LastName:  g.LastName,
			Email:     g.Email,
		})
	}
	for _, p := range dep.Passengers {
		view.Passengers = append(view.Passengers, Passenger{
			ClientID:     p.ClientID.Int64(),
			ClientName:   p.ClientName,
			Age:          p.Age.Int64(),
			Gender:       p.Gender,
			Hometown:     p.Hometown,
			NbrPastTrips: p.NbrPastTrips.Int64(),
			Notes:        p.Notes,
		})
	}

	// El backend manda un solo array: primera mitad docs de viaje, segunda
	// mitad docs de salida.
	mid := len(dep.TripDocs) / 2
	for i, d := range dep.TripDocs {
		doc := Document{Description: d.Description, DocumentURL: d.DocumentURL}
		if i < mid {
			view.TripDocuments = append(view.TripDocuments, doc)
		} else {
			view.DepartureDocuments = append(view.DepartureDocuments, doc)
		}
	}

	var fl tourcube.FormList
	if isVendor {
		fl, err = s.TC.VendorForms(ctx, creds, userID, departureID)
	} else {
		var fr *tourcube.FormsResponse
		fr, err = s.TC.GuideForms(ctx, creds, userID, departureID)
		if fr != nil {
			fl = fr.Forms
		}
	}
	if err != nil {
		logger.From(ctx).Warn("formularios de salida no disponibles",
			logger.UpstreamPath("forms"),
			logger.UserID(userID),
			logger.Err(err))
		fl = nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, f := range fl {
		fv := buildFormView(f, companyCode, today)
		view.Forms = append(view.Forms, fv)
		if fv.Status.Status == forms.StatusPending {
			view.FormsToCompleteCount++
		}
	}
	return view, nil
}

// Trip arma la página de viaje: salidas futuras ascendentes, pasadas
// descendentes, canceladas afuera.
func (s *Service) Trip(ctx context.Context, creds tourcube.Credentials, tripID, guideID int64) (*TripView, error) {
	tp, err := s.TC.TripPage(ctx, creds, tripID, guideID)
	if err != nil {
		return nil, err
	}

	view := &TripView{
		TripID:         tripID,
		TripName:       tp.TripName,
		ThumbnailImage: tp.ThumbnailImageURL,
	}
	for _, d := range tp.Documents {
		view.Documents = append(view.Documents, Document{
			Description: d.Description,
			DocumentURL: d.DocumentURL,
			TripYear:    d.TripYear,
		})
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, d := range tp.Departures {
		if d.Status == "Canceled" {
			continue
		}
		depDate, _ := tourcube.ParseDate(d.DepDate)

		sum := DepartureSummary{
			TripDepartureID: d.TripDepID.Int64(),
			Dates:           d.Dates,
			DepartureDate:   depDate,
			Status:          d.Status,
			Guides:          strings.ReplaceAll(d.Guides, ",", ", "),
			GuideIDs:        d.GuideIDs,
			SignUps:         d.SignUps.Int64(),
			Comment:         d.Comment,
			IsGuideOnTrip:   guideOnDeparture(d.GuideIDs, guideID),
		}
		if !depDate.IsZero() && !depDate.Before(today) {
			view.FutureDepartures = append(view.FutureDepartures, sum)
		} else {
			view.PastDepartures = append(view.PastDepartures, sum)
		}
	}
	sort.SliceStable(view.FutureDepartures, func(i, j int) bool {
		return view.FutureDepartures[i].DepartureDate.Before(view.FutureDepartures[j].DepartureDate)
	})
	sort.SliceStable(view.PastDepartures, func(i, j int) bool {
		return view.PastDepartures[i].DepartureDate.After(view.PastDepartures[j].DepartureDate)
	})
	return view, nil
}

// Client arma la ficha de un pasajero. Si el upstream no manda edad, se
// calcula desde la fecha de nacimiento.
func (s *Service) Client(ctx context.Context, creds tourcube.Credentials, clientID, guideID int64) (*ClientView, error) {
	cp, err := s.TC.ClientDetail(ctx, creds, clientID, guideID)
	if err != nil {
		return nil, err
	}

	age := cp.Age.Int64()
	if age == 0 && cp.BirthDate != "" {
		if bd, ok := tourcube.ParseDate(cp.BirthDate); ok {
			age = int64(ageAt(bd, time.Now().UTC()))
		}
	}
	return &ClientView{
		ClientID:            clientID,
		FirstName:           cp.FirstName,
		LastName:            cp.LastName,
		Email:               cp.Email,
		Hometown:            cp.HomeTown,
		Gender:              cp.Gender,
		Age:                 age,
		Mobile:              cp.Mobile,
		NumberOfTrips:       cp.NumberOfTrips.Int64(),
		Medical:             cp.Medical,
		Fitness:             cp.Fitness,
		DietaryRestrictions: cp.DietaryRestrictions,
		DietaryPreferences:  cp.DietaryPreferences,
		PastTrips:           cp.PastTrips,
		PastTripsWithLeader: cp.PastTripsWithLeader,
		FutureTrips:         cp.FutureTrips,
		Notes:               cp.Notes,
	}, nil
}

// ResolveGuideHash delega al endpoint clientHash (acceso de soporte).
func (s *Service) ResolveGuideHash(ctx context.Context, creds tourcube.Credentials, hash string) (int64, error) {
	return s.TC.ResolveClientHash(ctx, creds, hash)
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func parseTrips(rows []tourcube.TripRow) []Trip {
	out := make([]Trip, 0, len(rows))
	for _, r := range rows {
		depDate, _ := tourcube.ParseDate(r.DepartureDate)
		out = append(out, Trip{
			TripDepartureID: r.TripDepartureID.Int64(),
			TripID:          r.TripID.Int64(),
			TourName:        r.TripName,
			Dates:           r.Dates,
			DepartureDate:   depDate,
			GroupSize:       r.SignUps.Int64(),
			TripLeaders:     r.TripLeaders,
			DevName:         r.DevName,
			OpsName:         r.OpsName,
		})
	}
	return out
}

func buildFormView(f tourcube.Form, companyCode string, today time.Time) FormView {
	due, _ := tourcube.ParseDate(f.DueDate)
	dep, _ := tourcube.ParseDate(f.DepartureDate)
	cf := forms.ContactFields{
		DevName: f.DevName, DevEmail: f.DevEmail, DevPhone: f.DevPhone,
		OpsName: f.OpsName, OpsEmail: f.OpsEmail, OpsPhone: f.OpsPhone,
	}
	return FormView{
		FormID:              f.FormID,
		FormName:            f.FormName,
		Description:         f.Description,
		TripInfo:            f.TripInfo,
		DueDate:             due,
		DepartureDate:       dep,
		Received:            f.Received,
		Required:            f.Required,
		EditableAfterSubmit: f.EditableAfterSubmit,
		URL:                 f.URL,
		PDFURL:              f.PDFURL,
		FormType:            f.Type,
		Contact:             forms.ContactFor(companyCode, cf),
		ContactLabel:        forms.ContactLabel(companyCode, cf),
		ShowContact:         forms.ShowContact(companyCode),
		Status:              forms.GuideStatus(f.Received, f.EditableAfterSubmit, due, f.URL, today),
	}
}

func guideOnDeparture(guideIDs string, guideID int64) bool {
	for _, part := range strings.Split(guideIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil && id == guideID {
			return true
		}
	}
	return false
}

func ageAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
