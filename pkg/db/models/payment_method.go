package models

import "github.com/google/uuid"

// PaymentMethod is admin-managed reference data; orders may only be placed
// against an active method.
type PaymentMethod struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MethodName  string    `gorm:"column:method_name;not null"`
	QRCodeImage *string   `gorm:"column:qr_code_image"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	Notes       *string   `gorm:"column:notes"`
}
