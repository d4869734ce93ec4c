package parcel

// DeliveryStatus is the lifecycle stage of a parcel's physical movement.
type DeliveryStatus string

const (
	DeliveryStatusPending       DeliveryStatus = "pending"
	DeliveryStatusRiderAssigned DeliveryStatus = "rider_assigned"
	DeliveryStatusInTransit     DeliveryStatus = "in-transit"
	DeliveryStatusDelivered     DeliveryStatus = "delivered"
	DeliveryStatusServiceCenter DeliveryStatus = "service_center_delivered"
)

// PaymentStatus marks whether the sender has paid for the parcel.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// CashoutStatus marks whether the rider commission for the parcel has
// been paid out.
type CashoutStatus string

const (
	CashoutStatusNone      CashoutStatus = "none"
	CashoutStatusCashedOut CashoutStatus = "cashed_out"
)

func (ds DeliveryStatus) String() string {
	return string(ds)
}

func (ds DeliveryStatus) IsValid() bool {
	switch ds {
	case DeliveryStatusPending, DeliveryStatusRiderAssigned, DeliveryStatusInTransit,
		DeliveryStatusDelivered, DeliveryStatusServiceCenter:
		return true
	default:
		return false
	}
}

// IsCompleted returns true if the parcel reached a terminal delivery state.
func (ds DeliveryStatus) IsCompleted() bool {
	return ds == DeliveryStatusDelivered || ds == DeliveryStatusServiceCenter
}

// CanTransitionTo reports whether moving from ds to next follows one of the
// allowed forward edges. There is no path backward.
func (ds DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	switch ds {
	case DeliveryStatusPending:
		return next == DeliveryStatusRiderAssigned
	case DeliveryStatusRiderAssigned:
		return next == DeliveryStatusInTransit
	case DeliveryStatusInTransit:
		return next == DeliveryStatusDelivered || next == DeliveryStatusServiceCenter
	default:
		return false
	}
}

// UpdatableStatuses are the values a rider may set through the status-update
// endpoint.
func UpdatableStatuses() []DeliveryStatus {
	return []DeliveryStatus{
		DeliveryStatusRiderAssigned,
		DeliveryStatusInTransit,
		DeliveryStatusDelivered,
	}
}

// IsUpdatable reports whether ds is one of the rider-settable statuses.
func (ds DeliveryStatus) IsUpdatable() bool {
	for _, s := range UpdatableStatuses() {
		if ds == s {
			return true
		}
	}
	return false
}

func (cs CashoutStatus) IsCashedOut() bool {
	return cs == CashoutStatusCashedOut
}
