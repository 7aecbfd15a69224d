package models

// OrderInstallment is one scheduled part of an installments payment.
type OrderInstallment struct {
	ID          uint  `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     uint  `gorm:"column:order_id;not null;index"`
	Sequence    int   `gorm:"column:sequence;not null"`
	AmountCents int64 `gorm:"column:amount_cents;not null"`
}

func (OrderInstallment) TableName() string { return "order_installments" }
