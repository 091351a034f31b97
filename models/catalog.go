package models

// Doctor is the registry record the engine needs to validate bookings
// against. Profile management lives outside this service.
type Doctor struct {
	ID         string `bson:"id" json:"id"`
	HospitalID string `bson:"hospital_id" json:"hospital_id"`
	FullName   string `bson:"full_name" json:"full_name"`
	Specialty  string `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Active     bool   `bson:"active" json:"active"`
}

// Branch is a physical location belonging to a hospital.
type Branch struct {
	ID         string `bson:"id" json:"id"`
	HospitalID string `bson:"hospital_id" json:"hospital_id"`
	Name       string `bson:"name" json:"name"`
	Address    string `bson:"address,omitempty" json:"address,omitempty"`
	Active     bool   `bson:"active" json:"active"`
}

// HospitalService is a bookable service; its duration drives slot stepping.
type HospitalService struct {
	ID              string  `bson:"id" json:"id"`
	HospitalID      string  `bson:"hospital_id" json:"hospital_id"`
	Name            string  `bson:"name" json:"name"`
	DurationMinutes int     `bson:"duration_minutes" json:"duration_minutes"`
	Price           float64 `bson:"price,omitempty" json:"price,omitempty"`
	Active          bool    `bson:"active" json:"active"`
}
