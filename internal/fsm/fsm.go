package fsm

const (
	OrderStatePending   = "pending"
	OrderStateCompleted = "completed"
	OrderStateExpired   = "expired"
)

const (
	// OrderEventProgress changes the sub-status of a pending order; the
	// lifecycle state itself stays pending.
	OrderEventProgress = "progress"
	OrderEventComplete = "complete"
	OrderEventExpire   = "expire"
)
