package types

type UserResponse struct {
	ID              uint     `json:"id"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	CurrentCompany  string   `json:"current_company,omitempty"`
	CurrentSalary   *float64 `json:"current_salary,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	TechStack       []string `json:"tech_stack,omitempty"`
}
