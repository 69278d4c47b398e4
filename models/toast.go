package models

type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastInfo    ToastType = "info"
	ToastWarning ToastType = "warning"
)

type Toast struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Type    ToastType `json:"type"`
}
