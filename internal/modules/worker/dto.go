package worker

type CreateWorkerRequest struct {
	UserID           int64    `json:"user_id" binding:"required"`
	Bio              string   `json:"bio"`
	Skills           []string `json:"skills"`
	HourlyRate       float64  `json:"hourly_rate"`
	ServiceAreas     []string `json:"service_areas"`
	Phone            string   `json:"phone"`
	Address          string   `json:"address"`
	ExperienceYears  int      `json:"experience_years"`
	Certifications   string   `json:"certifications"`
	Languages        string   `json:"languages"`
	AvailabilityNote string   `json:"availability_note"`
}

type UpdateWorkerRequest struct {
	Bio              *string   `json:"bio"`
	Skills           *[]string `json:"skills"`
	HourlyRate       *float64  `json:"hourly_rate"`
	ServiceAreas     *[]string `json:"service_areas"`
	Phone            *string   `json:"phone"`
	Address          *string   `json:"address"`
	ExperienceYears  *int      `json:"experience_years"`
	Certifications   *string   `json:"certifications"`
	Languages        *string   `json:"languages"`
	AvailabilityNote *string   `json:"availability_note"`
	IsAvailable      *bool     `json:"is_available"`
}

type AssignServiceRequest struct {
	ServiceID   int64    `json:"service_id" binding:"required"`
	CustomPrice *float64 `json:"custom_price"`
	IsEnabled   *bool    `json:"is_enabled"`
}

type SlotRequest struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAvailable *bool  `json:"is_available"`
}

type ExceptionRequest struct {
	Date        string `json:"date" binding:"required"`
	IsAvailable bool   `json:"is_available"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}
