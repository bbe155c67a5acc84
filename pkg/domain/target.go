package domain

// TargetRef is the resolved form of an event's polymorphic target. Exactly one
// of CertificateTarget, ProductionSourceTarget or UnknownTarget implements it.
type TargetRef interface {
	Kind() EventTarget
	TargetID() string
	// Key returns the "{target}:{target_id}" lookup key.
	Key() string
	isTargetRef()
}

// CertificateTarget points at a Certificate.
type CertificateTarget struct{ ID string }

// ProductionSourceTarget points at a ProductionSource.
type ProductionSourceTarget struct{ ID string }

// UnknownTarget carries a discriminator the core does not recognise.
type UnknownTarget struct {
	Target EventTarget
	ID     string
}

func (t CertificateTarget) Kind() EventTarget { return TargetCertificate }
func (t CertificateTarget) TargetID() string  { return t.ID }
func (t CertificateTarget) Key() string       { return TargetKey(TargetCertificate, t.ID) }
func (CertificateTarget) isTargetRef()        {}

func (t ProductionSourceTarget) Kind() EventTarget { return TargetProductionSource }
func (t ProductionSourceTarget) TargetID() string  { return t.ID }
func (t ProductionSourceTarget) Key() string       { return TargetKey(TargetProductionSource, t.ID) }
func (ProductionSourceTarget) isTargetRef()        {}

func (t UnknownTarget) Kind() EventTarget { return t.Target }
func (t UnknownTarget) TargetID() string  { return t.ID }
func (t UnknownTarget) Key() string       { return TargetKey(t.Target, t.ID) }
func (UnknownTarget) isTargetRef()        {}

// TargetKey formats the label-map key for a target.
func TargetKey(target EventTarget, id string) string {
	return string(target) + ":" + id
}

// NewTargetRef builds the typed reference for a discriminator/id pair.
func NewTargetRef(target EventTarget, id string) TargetRef {
	switch target {
	case TargetCertificate:
		return CertificateTarget{ID: id}
	case TargetProductionSource:
		return ProductionSourceTarget{ID: id}
	default:
		return UnknownTarget{Target: target, ID: id}
	}
}

// Ref returns the typed target reference of the event.
func (e Event) Ref() TargetRef {
	return NewTargetRef(e.Target, e.TargetID)
}
