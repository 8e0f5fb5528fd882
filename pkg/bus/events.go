package bus

type EventId uint8

const (
	ContractUpdateEvent EventId = iota
	ContractClosedEvent
	ApplicationEvent
)

func (id EventId) String() string {
	switch id {
	case ContractUpdateEvent:
		return "contract_update"
	case ContractClosedEvent:
		return "contract_closed"
	case ApplicationEvent:
		return "application"
	default:
		return "unknown"
	}
}
