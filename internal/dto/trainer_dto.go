package dto

type TrainerLoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	TrainerID       uint   `json:"trainerId" validate:"required"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

type CreateTrainerRequest struct {
	Username string `json:"username" validate:"required,alphanum,max=64"`
	FullName string `json:"fullName" validate:"required,notblank,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// TrainerResponse is the session view of a trainer, never carrying the hash.
type TrainerResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type TrainerLoginResponse struct {
	Success bool            `json:"success"`
	Trainer TrainerResponse `json:"trainer"`
}
