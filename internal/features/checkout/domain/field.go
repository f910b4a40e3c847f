package domain

// Field names a form input. Values match the storefront's form keys.
type Field string

const (
	FieldCustomerName       Field = "customerName"
	FieldCustomerLastName   Field = "customerLastName"
	FieldCustomerEmail      Field = "customerEmail"
	FieldCustomerPhone      Field = "customerPhone"
	FieldCustomerNifCif     Field = "customerNifCif"
	FieldShippingAddress    Field = "shippingAddress"
	FieldShippingCity       Field = "shippingCity"
	FieldShippingProvince   Field = "shippingProvince"
	FieldShippingPostalCode Field = "shippingPostalCode"
	FieldBillingAddress     Field = "billingAddress"
	FieldBillingCity        Field = "billingCity"
	FieldBillingProvince    Field = "billingProvince"
	FieldBillingPostalCode  Field = "billingPostalCode"
	FieldPassword           Field = "password"
	FieldDeliveryType       Field = "shippingType"
	FieldShippingMethod     Field = "shippingMethodId"
	FieldPaymentMethod      Field = "paymentMethodId"
)

// CustomerFields and ShippingFields are always required.
var (
	CustomerFields = []Field{FieldCustomerName, FieldCustomerLastName, FieldCustomerEmail, FieldCustomerPhone, FieldCustomerNifCif}
	ShippingFields = []Field{FieldShippingAddress, FieldShippingCity, FieldShippingProvince, FieldShippingPostalCode}
	BillingFields  = []Field{FieldBillingAddress, FieldBillingCity, FieldBillingProvince, FieldBillingPostalCode}
)
