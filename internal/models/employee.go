package models

// Employee is the lookup record used by the verified-by selector. It has no
// independent lifecycle on the client.
type Employee struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Email      string `json:"email"`
}
