package domain

import "time"

// Medicine представляет лекарство в каталоге аптеки
type Medicine struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Description  string    `json:"description" bson:"description"`
	Price        float64   `json:"price" bson:"price"`
	Stock        int64     `json:"stock" bson:"stock"`
	Category     string    `json:"category" bson:"category"`
	Manufacturer string    `json:"manufacturer" bson:"manufacturer"`
	ExpiryDate   time.Time `json:"expiryDate" bson:"expiryDate"`
	ImageURL     string    `json:"imageUrl" bson:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OrderItem позиция в заказе. Price: цена на момент оформления, а не ссылка на каталог.
type OrderItem struct {
	MedicineID string  `json:"medicine" bson:"medicine"`
	Price      float64 `json:"price" bson:"price"`
	Quantity   int64   `json:"quantity" bson:"quantity"`
}

// Shipping снимок адреса доставки, независимый от профиля пользователя
type Shipping struct {
	Name    string `json:"name" bson:"name" validate:"required"`
	Email   string `json:"email" bson:"email" validate:"required,shipping_email"`
	Phone   string `json:"phone" bson:"phone" validate:"required,len=10,digits"`
	Address string `json:"address" bson:"address" validate:"required"`
	City    string `json:"city" bson:"city" validate:"required"`
	State   string `json:"state" bson:"state" validate:"required"`
	Pincode string `json:"pincode" bson:"pincode" validate:"required,len=6,digits"`
	Country string `json:"country" bson:"country" validate:"required"`
}

// PaymentMethod способ оплаты (только фиксируется, не проводится)
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

type PaymentDetails struct {
	Method PaymentMethod `json:"paymentMethod" bson:"paymentMethod"`
}

// SubscriptionDetails заполняется только для заказов с IsSubscription
type SubscriptionDetails struct {
	Frequency        Frequency `json:"frequency" bson:"frequency"`
	Duration         Duration  `json:"duration" bson:"duration"`
	NextDeliveryDate time.Time `json:"nextDeliveryDate" bson:"nextDeliveryDate"`
}

// Order сущность заказа
type Order struct {
	ID                  string               `json:"id" bson:"_id"`
	UserID              string               `json:"user" bson:"user"`
	Items               []OrderItem          `json:"items" bson:"items"`
	TotalAmount         float64              `json:"totalAmount" bson:"totalAmount"`
	Status              OrderStatus          `json:"status" bson:"status"`
	Shipping            Shipping             `json:"shipping" bson:"shipping"`
	PaymentDetails      PaymentDetails       `json:"paymentDetails" bson:"paymentDetails"`
	IsSubscription      bool                 `json:"isSubscription" bson:"isSubscription"`
	SubscriptionDetails *SubscriptionDetails `json:"subscriptionDetails,omitempty" bson:"subscriptionDetails,omitempty"`
	SourceOrderID       string               `json:"sourceOrder,omitempty" bson:"sourceOrder,omitempty"`
	CreatedAt           time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Clone возвращает копию заказа без общих срезов и указателей
func (o Order) Clone() Order {
	cp := o
	cp.Items = append([]OrderItem(nil), o.Items...)
	if o.SubscriptionDetails != nil {
		sd := *o.SubscriptionDetails
		cp.SubscriptionDetails = &sd
	}
	return cp
}

type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
}

type SubscriptionPreferences struct {
	PreferredDeliveryTime string `json:"preferredDeliveryTime" bson:"preferredDeliveryTime"`
	DeliveryNotes         string `json:"deliveryNotes" bson:"deliveryNotes"`
	AutoRenew             bool   `json:"autoRenew" bson:"autoRenew"`
}

// User учётная запись. PasswordHash никогда не сериализуется в JSON.
type User struct {
	ID                      string                  `json:"id" bson:"_id"`
	Name                    string                  `json:"name" bson:"name"`
	Email                   string                  `json:"email" bson:"email"`
	PasswordHash            string                  `json:"-" bson:"password"`
	Phone                   string                  `json:"phone" bson:"phone"`
	Address                 Address                 `json:"address" bson:"address"`
	Role                    Role                    `json:"role" bson:"role"`
	OrderCount              int64                   `json:"orderCount" bson:"orderCount"`
	Prescriptions           []Prescription          `json:"prescriptions" bson:"prescriptions"`
	SubscriptionPreferences SubscriptionPreferences `json:"subscriptionPreferences" bson:"subscriptionPreferences"`
	CreatedAt               time.Time               `json:"createdAt" bson:"createdAt"`
	UpdatedAt               time.Time               `json:"updatedAt" bson:"updatedAt"`
}

func (u User) Clone() User {
	cp := u
	cp.Prescriptions = append([]Prescription(nil), u.Prescriptions...)
	return cp
}

// PrescriptionStatus статус модерации рецепта
type PrescriptionStatus string

const (
	PrescriptionPending  PrescriptionStatus = "pending"
	PrescriptionApproved PrescriptionStatus = "approved"
	PrescriptionRejected PrescriptionStatus = "rejected"
)

type Prescription struct {
	ID               string             `json:"id" bson:"_id"`
	ImageURL         string             `json:"imageUrl" bson:"imageUrl"`
	Status           PrescriptionStatus `json:"status" bson:"status"`
	VerifiedBy       string             `json:"verifiedBy,omitempty" bson:"verifiedBy,omitempty"`
	VerificationDate *time.Time         `json:"verificationDate,omitempty" bson:"verificationDate,omitempty"`
	RejectionReason  string             `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	UploadDate       time.Time          `json:"uploadDate" bson:"uploadDate"`
}
