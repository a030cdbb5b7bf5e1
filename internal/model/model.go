package model

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Question{},
		&Assessment{},
		&Answer{},
		&PartnerInvite{},
		&Article{},
		&FAQ{},
		&RevokedToken{},
		&PaymentEvent{},
	}
}
