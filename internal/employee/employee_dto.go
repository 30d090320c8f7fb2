package employee

type CreateEmployeeRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role" binding:"required,oneof=founder l1_manager l2_manager l3_manager peer"`
	Category   *string `json:"category" binding:"omitempty,oneof=software_developer ml_engineer qa_engineer ui_ux_developer"`
	ManagerID  *string `json:"manager_id" binding:"omitempty,uuid"`
	Department *string `json:"department"`
}

type UpdateEmployeeRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Role       *string `json:"role" binding:"omitempty,oneof=founder l1_manager l2_manager l3_manager peer"`
	Category   *string `json:"category" binding:"omitempty,oneof=software_developer ml_engineer qa_engineer ui_ux_developer"`
	ManagerID  *string `json:"manager_id" binding:"omitempty,uuid"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role"`
	Category   *string `json:"category,omitempty"`
	ManagerID  *string `json:"manager_id,omitempty"`
	Department *string `json:"department,omitempty"`
	IsActive   bool    `json:"is_active"`
}
