package entity

// OrderStatus is the payment status of an order. The only legal transition
// is pending -> paid.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Channel is the delivery modality of a service.
type Channel string

const (
	ChannelChat      Channel = "chat"
	ChannelVideo     Channel = "video"
	ChannelHome      Channel = "home"
	ChannelWorkplace Channel = "workplace"
	ChannelShop      Channel = "shop"
)

// Order is a selected service plus its price and confirmation token,
// pending manual payment confirmation. Token and service fields are set at
// creation and never change; UserName and UserPhone are filled by the two
// collection turns that follow.
type Order struct {
	ServiceCode string      `json:"service_code" bson:"service_code"`
	ServiceName string      `json:"service_name" bson:"service_name"`
	AmountTZS   int         `json:"amount_tzs" bson:"amount_tzs"`
	Channel     Channel     `json:"channel" bson:"channel"`
	Token       string      `json:"token" bson:"token"`
	CheckoutURL string      `json:"checkout_url,omitempty" bson:"checkout_url,omitempty"`
	Status      OrderStatus `json:"status" bson:"status"`
	UserName    string      `json:"user_name,omitempty" bson:"user_name,omitempty"`
	UserPhone   string      `json:"user_phone,omitempty" bson:"user_phone,omitempty"`
}

// CheckoutResult is what a payment provider returns for a new checkout.
type CheckoutResult struct {
	Token        string `json:"token"`
	Instructions string `json:"instructions"`
	CheckoutURL  string `json:"checkout_url,omitempty"`
}
