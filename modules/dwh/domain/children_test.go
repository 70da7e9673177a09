package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
)

func seaLeg() domain.TransportLeg {
	return domain.TransportLeg{
		PortOfLoading:      domain.CodeName{Code: "USNYC", Name: "New York"},
		PortOfDischarge:    domain.CodeName{Code: "NLRTM", Name: "Rotterdam"},
		TransportMode:      "Sea",
		VesselName:         "MSC OSCAR",
		VoyageFlightNo:     "123",
		Order:              1,
		EstimatedArrival:   "2025-07-20T06:00:00",
		EstimatedDeparture: "2025-07-07T18:00:00",
	}
}

func TestTransportLegDedupKey_IgnoresCasingAndWhitespace(t *testing.T) {
	a := seaLeg()
	b := seaLeg()
	b.PortOfLoading.Code = "usnyc"
	b.TransportMode = "SEA"
	b.VesselName = "msc   oscar"

	require.Equal(t, a.DedupKey(), b.DedupKey())
}

func TestTransportLegDedupKey_DiffersOnTimestamps(t *testing.T) {
	a := seaLeg()
	b := seaLeg()
	b.EstimatedArrival = "2025-07-21T06:00:00"

	require.NotEqual(t, a.DedupKey(), b.DedupKey())
}

func TestVesselIdentity_PrefersRegistryNumber(t *testing.T) {
	require.Equal(t, "9703291", domain.VesselIdentity("MSC Oscar", "9703291"))
	require.Equal(t, "MSC OSCAR", domain.VesselIdentity("msc oscar", ""))
}

func TestDedupTransportLegs_NameAndRegistryCollapse(t *testing.T) {
	byName := seaLeg()
	byIMO := seaLeg()
	byIMO.VesselName = ""
	byIMO.VesselLloydsIMO = "9703291"

	out := domain.DedupTransportLegs([]domain.TransportLeg{byName, byIMO})
	require.Len(t, out, 1)
}

func TestDedupTransportLegs_DistinctLegsSurvive(t *testing.T) {
	first := seaLeg()
	second := seaLeg()
	second.Order = 2
	second.PortOfLoading = domain.CodeName{Code: "NLRTM"}
	second.PortOfDischarge = domain.CodeName{Code: "DEHAM"}

	out := domain.DedupTransportLegs([]domain.TransportLeg{first, second, first})
	require.Len(t, out, 2)
}

func TestDedup_KeepsFirstOccurrence(t *testing.T) {
	amount := decimal.NewNullDecimal(decimal.RequireFromString("100.00"))
	a := domain.Charge{
		ChargeCode:  domain.CodeDesc{Code: "FRT"},
		Description: "Ocean freight",
		CostAmount:  amount,
	}
	b := a
	b.Description = " Ocean  freight "
	c := a
	c.CostAmount = decimal.NewNullDecimal(decimal.RequireFromString("150.00"))

	out := domain.Dedup([]domain.Charge{a, b, c})
	require.Len(t, out, 2)
	require.Equal(t, "Ocean freight", out[0].Description)
}

func TestContainerDedupKey(t *testing.T) {
	a := domain.Container{ContainerNumber: "MSKU1234567", SealNumber: "s-99"}
	b := domain.Container{ContainerNumber: "msku1234567 ", SealNumber: "S-99"}
	require.Equal(t, a.DedupKey(), b.DedupKey())

	c := domain.Container{ContainerNumber: "MSKU1234567", SealNumber: "S-11"}
	require.NotEqual(t, a.DedupKey(), c.DedupKey())
}

func TestDatedEventDedupKey_EstimateFlagDistinguishes(t *testing.T) {
	est := true
	a := domain.DatedEvent{Type: domain.CodeDesc{Code: "ETA"}, DateTimeText: "2025-07-20T06:00:00", IsEstimate: &est}
	b := domain.DatedEvent{Type: domain.CodeDesc{Code: "ETA"}, DateTimeText: "2025-07-20T06:00:00"}
	require.NotEqual(t, a.DedupKey(), b.DedupKey())
}
