package tourcube

// Tipos wire del API de reservas. Los nombres de campo siguen lo que el
// backend emite, con su mezcla histórica de mayúsculas.

// LoginResponse es la respuesta de POST /tourcube/guidePortal/login.
// Type: 1 = guía, 2 = vendor.
type LoginResponse struct {
	LoginFailed    bool    `json:"LoginFailed"`
	Type           int     `json:"Type"`
	GuideClientID  FlexInt `json:"GuideClientID"`
	GuideFirstName string  `json:"GuideFirstName"`
	GuideLastName  string  `json:"GuideLastName"`
	GuideEmail     string  `json:"GuideEmail"`
	GuideVendorID  FlexInt `json:"GuideVendorID"`
}

const (
	LoginTypeGuide  = 1
	LoginTypeVendor = 2
)

// TripRow es una fila de viaje en los homepages de guía y vendor.
type TripRow struct {
	TripDepartureID FlexInt `json:"Trip_DepartureID"`
	TripID          FlexInt `json:"TripID"`
	TripName        string  `json:"Trip_Name"`
	Dates           string  `json:"dates"`
	DepartureDate   string  `json:"Departure_Date"`
	SignUps         FlexInt `json:"SignUps"`
	TripLeaders     string  `json:"Trip_Leaders"`
	DevName         string  `json:"devName"`
	OpsName         string  `json:"opsName"`
}

// GuideHomepage es la respuesta de getGuideHomepage/{id}.
type GuideHomepage struct {
	Name        string    `json:"name"`
	GuideImage  string    `json:"GuideImage"`
	FutureTrips []TripRow `json:"FutureTrips"`
	PastTrips   []TripRow `json:"PastTrips"`
}

// VendorHomepage es la respuesta de getVendorHomepage/{id}.
type VendorHomepage struct {
	Name        string    `json:"name"`
	FutureTrips []TripRow `json:"FutureTrips"`
	PastTrips   []TripRow `json:"PastTrips"`
}

// Form es una fila de formulario, de getGuideForms y getVendorForms.
type Form struct {
	FormID              string  `json:"formID"`
	FormName            string  `json:"formName"`
	Description         string  `json:"Description"`
	TripInfo            string  `json:"TripInfo"`
	DueDate             string  `json:"dueDate"`
	DepartureDate       string  `json:"DepartureDate"`
	Received            bool    `json:"received"`
	Required            bool    `json:"required"`
	EditableAfterSubmit bool    `json:"EditableAfterSubmit"`
	URL                 string  `json:"URL"`
	PDFURL              string  `json:"pdfURL"`
	Type                string  `json:"Type"`
	OpsName             string  `json:"OpsName"`
	OpsEmail            string  `json:"OpsEmail"`
	OpsPhone            string  `json:"OpsPhone"`
	DevName             string  `json:"DevName"`
	DevEmail            string  `json:"DevEmail"`
	DevPhone            string  `json:"DevPhone"`
}

// FormsResponse es la respuesta de getGuideForms/{id}/{dep}.
type FormsResponse struct {
	RequestStatus string   `json:"requestStatus"`
	Forms         FormList `json:"forms"`
}

// DepartureGuide es un líder de viaje dentro de getDeparturePage.
type DepartureGuide struct {
	GuideID   FlexInt `json:"guideID"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
}

// DeparturePassenger es un pasajero dentro de getDeparturePage.
type DeparturePassenger struct {
	ClientID     FlexInt `json:"clientID"`
	ClientName   string  `json:"clientName"`
	Age          FlexInt `json:"age"`
	Gender       string  `json:"gender"`
	Hometown     string  `json:"hometown"`
	NbrPastTrips FlexInt `json:"nbrPastTrips"`
	Notes        string  `json:"notes"`
}

// Document es un documento adjunto a un viaje o salida.
type Document struct {
	Description string `json:"description"`
	DocumentURL string `json:"documentURL"`
	TripYear    string `json:"tripYear"`
}

// DeparturePage es la respuesta de getDeparturePage/{id}.
type DeparturePage struct {
	TripDepartureID    FlexInt              `json:"TripDepartureID"`
	TripID             FlexInt              `json:"TripID"`
	DepartureID        string               `json:"DepartureID"`
	TripName           string               `json:"tripName"`
	TripDates          string               `json:"tripDates"`
	ThumbNailImage     string               `json:"thumbNailImage"`
	TripDeveloperName  string               `json:"tripDeveloperName"`
	TripDeveloperEmail string               `json:"tripDeveloperEmail"`
	Guides             []DepartureGuide     `json:"guides"`
	Passengers         []DeparturePassenger `json:"passengers"`
	TripDocs           []Document           `json:"tripDocs"`
}

// TripPageDeparture es una salida dentro de getTripPage.
type TripPageDeparture struct {
	TripDepID FlexInt `json:"tripdepID"`
	Dates     string  `json:"dates"`
	DepDate   string  `json:"Dep_date"`
	Status    string  `json:"status"`
	Guides    string  `json:"guides"`
	GuideIDs  string  `json:"guideIDs"`
	SignUps   FlexInt `json:"SignUps"`
	Comment   string  `json:"comment"`
}

// TripPage es la respuesta de getTripPage/{id}.
type TripPage struct {
	TripName          string              `json:"tripName"`
	ThumbnailImageURL string              `json:"ThumbnailImageURL"`
	Documents         []Document          `json:"documents"`
	Departures        []TripPageDeparture `json:"departures"`
}

// ClientPage es la respuesta de getClientPage/{id}.
type ClientPage struct {
	ClientID            FlexInt `json:"ClientID"`
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	Email               string  `json:"email"`
	HomeTown            string  `json:"hometown"`
	Gender              string  `json:"gender"`
	Age                 FlexInt `json:"age"`
	Mobile              string  `json:"mobile"`
	NumberOfTrips       FlexInt `json:"NumberOfTrips"`
	Medical             string  `json:"medical"`
	Fitness             string  `json:"fitness"`
	DietaryRestrictions string  `json:"dietaryRestrictions"`
	DietaryPreferences  string  `json:"dietaryPreferences"`
	PastTrips           string  `json:"pastTrips"`
	PastTripsWithLeader string  `json:"pastTripsWithLeader"`
	FutureTrips         string  `json:"futureTrips"`
	Notes               string  `json:"notes"`
	BirthDate           string  `json:"birthDate"`
}
