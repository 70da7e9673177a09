package domain

// Source discriminates which document family produced a row. Every child fact
// row carries it; reconciliation replaces rows scoped by (parent, source).
type Source string

const (
	// SourceAR is the transaction-centric family (accounts receivable).
	SourceAR Source = "AR"
	// SourceCSL is the shipment-centric family (canonical shipment documents).
	SourceCSL Source = "CSL"
)

func (s Source) Valid() bool {
	return s == SourceAR || s == SourceCSL
}
