package inventory

// Commands are immutable value objects carrying caller intent.

type RegisterProduct struct {
	ProductID string
	Name      string
	SKU       string
}

func (c RegisterProduct) AggregateID() string { return c.ProductID }

type SetProductQuantity struct {
	ProductID string
	Quantity  int64
}

func (c SetProductQuantity) AggregateID() string { return c.ProductID }

type IncreaseProductQuantity struct {
	ProductID string
	Quantity  int64
}

func (c IncreaseProductQuantity) AggregateID() string { return c.ProductID }

type DecreaseProductQuantity struct {
	ProductID string
	Quantity  int64
}

func (c DecreaseProductQuantity) AggregateID() string { return c.ProductID }
