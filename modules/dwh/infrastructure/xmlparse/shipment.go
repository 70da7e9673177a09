package xmlparse

import (
	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
)

func (p *XMLParser) parseShipment(root *xmlquery.Node, fileName string) (*domain.Document, error) {
	sn := xmlquery.FindOne(root, "//UniversalShipment/Shipment")
	if sn == nil {
		return nil, errors.Errorf("%s: no Shipment element", fileName)
	}

	sh := &domain.Shipment{
		Job:       jobRef(sn, "Job"),
		ConsolJob: jobRef(sn, "ConsolJob"),

		Ports: domain.ShipmentPorts{
			PlaceOfDelivery:     codeName(sn, "PlaceOfDelivery"),
			PlaceOfIssue:        codeName(sn, "PlaceOfIssue"),
			PlaceOfReceipt:      codeName(sn, "PlaceOfReceipt"),
			PortFirstForeign:    codeName(sn, "PortFirstForeign"),
			PortLastForeign:     codeName(sn, "PortLastForeign"),
			PortOfDischarge:     codeName(sn, "PortOfDischarge"),
			PortOfFirstArrival:  codeName(sn, "PortOfFirstArrival"),
			PortOfLoading:       codeName(sn, "PortOfLoading"),
			EventBranchHomePort: codeName(sn, "EventBranchHomePort"),
		},

		AWBServiceLevel:     codeDesc(sn, "AWBServiceLevel"),
		GatewayServiceLevel: codeDesc(sn, "GatewayServiceLevel"),
		ShipmentType:        codeDesc(sn, "ShipmentType"),
		ReleaseType:         codeDesc(sn, "ReleaseType"),
		ScreeningStatus:     codeDesc(sn, "ScreeningStatus"),
		PaymentMethod:       codeDesc(sn, "PaymentMethod"),
		FreightRateCurrency: codeDesc(sn, "FreightRateCurrency"),
		ContainerMode:       codeDesc(sn, "ContainerMode"),
		CO2eStatus:          codeDesc(sn, "CO2eStatus"),
		CO2eUnit:            codeDesc(sn, "CO2eUnit"),
		TotalVolumeUnit:     codeDesc(sn, "TotalVolumeUnit"),
		TotalWeightUnit:     codeDesc(sn, "TotalWeightUnit"),
		PacksUnit:           codeDesc(sn, "TotalNoOfPacksUnit"),

		Measures: domain.ShipmentMeasures{
			ContainerCount:  intOf(sn, "ContainerCount"),
			NoCopyBills:     intOf(sn, "NoCopyBills"),
			NoOriginalBills: intOf(sn, "NoOriginalBills"),
			OuterPacks:      intOf(sn, "OuterPacks"),
			TotalNoOfPacks:  intOf(sn, "TotalNoOfPacks"),

			ChargeableRate:                decimalOf(sn, "ChargeableRate"),
			DocumentedChargeable:          decimalOf(sn, "DocumentedChargeable"),
			DocumentedVolume:              decimalOf(sn, "DocumentedVolume"),
			DocumentedWeight:              decimalOf(sn, "DocumentedWeight"),
			FreightRate:                   decimalOf(sn, "FreightRate"),
			GreenhouseGasEmissionCO2e:     decimalOf(sn, "GreenhouseGasEmissionCO2e"),
			ManifestedChargeable:          decimalOf(sn, "ManifestedChargeable"),
			ManifestedVolume:              decimalOf(sn, "ManifestedVolume"),
			ManifestedWeight:              decimalOf(sn, "ManifestedWeight"),
			MaximumAllowablePackageHeight: decimalOf(sn, "MaximumAllowablePackageHeight"),
			MaximumAllowablePackageLength: decimalOf(sn, "MaximumAllowablePackageLength"),
			MaximumAllowablePackageWidth:  decimalOf(sn, "MaximumAllowablePackageWidth"),
			TotalPreallocatedChargeable:   decimalOf(sn, "TotalPreallocatedChargeable"),
			TotalPreallocatedVolume:       decimalOf(sn, "TotalPreallocatedVolume"),
			TotalPreallocatedWeight:       decimalOf(sn, "TotalPreallocatedWeight"),
			TotalVolume:                   decimalOf(sn, "TotalVolume"),
			TotalWeight:                   decimalOf(sn, "TotalWeight"),
		},

		Flags: domain.ShipmentFlags{
			IsCFSRegistered:            boolOf(sn, "IsCFSRegistered"),
			IsDirectBooking:            boolOf(sn, "IsDirectBooking"),
			IsForwardRegistered:        boolOf(sn, "IsForwardRegistered"),
			IsHazardous:                boolOf(sn, "IsHazardous"),
			IsNeutralMaster:            boolOf(sn, "IsNeutralMaster"),
			RequiresTemperatureControl: boolOf(sn, "RequiresTemperatureControl"),
		},

		Organizations: parseOrganizations(sn),
		Legs:          parseTransportLegs(sn),
		Containers:    parseContainers(sn),
		PackingLines:  parsePackingLines(sn),
		Dates:         parseDates(sn),
		Exceptions:    parseExceptions(sn),
		Milestones:    parseMilestones(sn),
		Notes:         parseNotes(sn),
		Charges:       parseCharges(sn),
	}

	for _, sub := range xmlquery.Find(sn, "SubShipmentCollection/SubShipment") {
		sh.SubShipments = append(sh.SubShipments, domain.SubShipment{
			Job:             jobRef(sub, "Job"),
			ShipmentType:    codeDesc(sub, "ShipmentType"),
			ServiceLevel:    codeDesc(sub, "ServiceLevel"),
			PortOfLoading:   codeName(sub, "PortOfLoading"),
			PortOfDischarge: codeName(sub, "PortOfDischarge"),
			TotalWeight:     decimalOf(sub, "TotalWeight"),
			TotalVolume:     decimalOf(sub, "TotalVolume"),
			WeightUnit:      codeDesc(sub, "TotalWeightUnit"),
			VolumeUnit:      codeDesc(sub, "TotalVolumeUnit"),

			Legs:         parseTransportLegs(sub),
			Containers:   parseContainers(sub),
			PackingLines: parsePackingLines(sub),
			Dates:        parseDates(sub),
			Milestones:   parseMilestones(sub),
			Notes:        parseNotes(sub),
			Charges:      parseCharges(sub),
		})
	}

	return &domain.Document{
		Source:   domain.SourceCSL,
		FileName: fileName,
		Context:  parseDataContext(sn),
		Shipment: sh,
	}, nil
}
