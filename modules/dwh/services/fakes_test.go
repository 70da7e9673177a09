package services_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/iota-uz/freight-dwh/modules/dwh/domain"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence/models"
)

// fakeDims hands out sequential keys per (table, code) pair.
type fakeDims struct {
	keys map[string]int64
	next int64
}

func newFakeDims() *fakeDims {
	return &fakeDims{keys: make(map[string]int64)}
}

func (d *fakeDims) get(name string) int64 {
	if key, ok := d.keys[name]; ok {
		return key
	}
	d.next++
	d.keys[name] = d.next
	return d.next
}

func (d *fakeDims) Resolve(_ context.Context, table persistence.DimTable, code string, _ persistence.Attributes) (int64, error) {
	code = domain.CleanString(code)
	if code == "" {
		return 0, persistence.ErrInvalidKey.WithDetails(table.Name)
	}
	return d.get(table.Name + "|" + code), nil
}

func (d *fakeDims) ResolveCodeName(ctx context.Context, table persistence.DimTable, ref domain.CodeName, extra persistence.Attributes) (int64, error) {
	return d.Resolve(ctx, table, ref.Code, extra)
}

func (d *fakeDims) ResolveCodeDesc(ctx context.Context, table persistence.DimTable, ref domain.CodeDesc, extra persistence.Attributes) (int64, error) {
	return d.Resolve(ctx, table, ref.Code, extra)
}

func (d *fakeDims) Lookup(_ context.Context, table persistence.DimTable, code string) (int64, bool, error) {
	key, ok := d.keys[table.Name+"|"+domain.CleanString(code)]
	return key, ok, nil
}

func (d *fakeDims) ResolveJob(_ context.Context, ref domain.JobRef) (int64, error) {
	if ref.Empty() {
		return 0, persistence.ErrInvalidKey.WithDetails("dim_job")
	}
	return d.get("dim_job|" + domain.CleanString(ref.Type) + "|" + domain.CleanString(ref.Key)), nil
}

type subRec struct {
	key       int64
	jobDimKey *int64
	source    string
}

// fakeFacts is an in-memory stand-in for the header fact tables.
type fakeFacts struct {
	nextKey int64

	arByNumber map[string]int64
	arRows     map[string]*models.ARTransaction

	shipments     map[int64]*models.Shipment
	shipmentByJob map[int64]int64
	subs          map[int64][]subRec

	shipmentInserts int
	shipmentUpdates int
	orgLinks        int
}

func newFakeFacts() *fakeFacts {
	return &fakeFacts{
		arByNumber:    make(map[string]int64),
		arRows:        make(map[string]*models.ARTransaction),
		shipments:     make(map[int64]*models.Shipment),
		shipmentByJob: make(map[int64]int64),
		subs:          make(map[int64][]subRec),
	}
}

func (f *fakeFacts) UpsertARTransaction(_ context.Context, row *models.ARTransaction) (int64, error) {
	f.arRows[row.Number] = row
	if key, ok := f.arByNumber[row.Number]; ok {
		return key, nil
	}
	f.nextKey++
	f.arByNumber[row.Number] = f.nextKey
	return f.nextKey, nil
}

func (f *fakeFacts) FindShipmentByJob(_ context.Context, jobDimKey int64) (int64, string, bool, error) {
	key, ok := f.shipmentByJob[jobDimKey]
	if !ok {
		return 0, "", false, nil
	}
	return key, f.shipments[key].Source, true, nil
}

func (f *fakeFacts) InsertShipment(_ context.Context, row *models.Shipment) (int64, error) {
	f.nextKey++
	f.shipments[f.nextKey] = row
	if row.ShipmentJobKey != nil {
		f.shipmentByJob[*row.ShipmentJobKey] = f.nextKey
	}
	f.shipmentInserts++
	return f.nextKey, nil
}

func (f *fakeFacts) UpdateShipment(_ context.Context, key int64, row *models.Shipment) error {
	f.shipments[key] = row
	if row.ShipmentJobKey != nil {
		f.shipmentByJob[*row.ShipmentJobKey] = key
	}
	f.shipmentUpdates++
	return nil
}

func (f *fakeFacts) DeleteSubShipments(_ context.Context, shipmentKey int64, source string) (int64, error) {
	kept := f.subs[shipmentKey][:0]
	var removed int64
	for _, s := range f.subs[shipmentKey] {
		if s.source == source {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	f.subs[shipmentKey] = kept
	return removed, nil
}

func (f *fakeFacts) InsertSubShipment(_ context.Context, row *models.SubShipment) (int64, error) {
	f.nextKey++
	f.subs[row.FactShipmentKey] = append(f.subs[row.FactShipmentKey], subRec{
		key:       f.nextKey,
		jobDimKey: row.JobDimKey,
		source:    row.Source,
	})
	return f.nextKey, nil
}

func (f *fakeFacts) EnsureFallbackSubShipment(_ context.Context, shipmentKey, jobDimKey int64) (bool, error) {
	for _, s := range f.subs[shipmentKey] {
		if s.jobDimKey != nil && *s.jobDimKey == jobDimKey {
			return false, nil
		}
	}
	f.nextKey++
	f.subs[shipmentKey] = append(f.subs[shipmentKey], subRec{
		key:       f.nextKey,
		jobDimKey: &jobDimKey,
		source:    string(domain.SourceAR),
	})
	return true, nil
}

func (f *fakeFacts) LinkAROrganization(context.Context, int64, int64, string) error {
	f.orgLinks++
	return nil
}

func (f *fakeFacts) LinkShipmentOrganization(context.Context, int64, int64, string) error {
	f.orgLinks++
	return nil
}

func (f *fakeFacts) InsertARMessageNumber(context.Context, int64, string, string) error { return nil }
func (f *fakeFacts) LinkARRecipientRole(context.Context, int64, int64) error           { return nil }
func (f *fakeFacts) RecordRegistrationNumber(context.Context, int64, string, string, string, string) error {
	return nil
}

func (f *fakeFacts) shipmentForJobRef(dims *fakeDims, ref domain.JobRef) *models.Shipment {
	jobKey, ok := dims.keys["dim_job|"+ref.Type+"|"+ref.Key]
	if !ok {
		return nil
	}
	key, ok := f.shipmentByJob[jobKey]
	if !ok {
		return nil
	}
	return f.shipments[key]
}

// fakeChildren keeps the latest replaced set per (table, parent, source).
type fakeChildren struct {
	sets map[string]any
}

func newFakeChildren() *fakeChildren {
	return &fakeChildren{sets: make(map[string]any)}
}

func setKey(table string, p persistence.Parent, source string) string {
	return fmt.Sprintf("%s|%s=%d|%s", table, p.Column, p.Key, source)
}

func replaceIn[T any](c *fakeChildren, table string, p persistence.Parent, source string, rows []T) (int64, int64, error) {
	key := setKey(table, p, source)
	var removed int64
	if prev, ok := c.sets[key]; ok {
		removed = int64(len(prev.([]T)))
	}
	c.sets[key] = rows
	return removed, int64(len(rows)), nil
}

// rowsFor returns the single stored set for (table, source) across parents.
func rowsFor[T any](c *fakeChildren, table, source string) []T {
	var out []T
	for key, rows := range c.sets {
		if strings.HasPrefix(key, table+"|") && strings.HasSuffix(key, "|"+source) {
			if typed, ok := rows.([]T); ok && len(typed) > 0 {
				out = append(out, typed...)
			}
		}
	}
	return out
}

func (c *fakeChildren) ReplaceTransportLegs(_ context.Context, p persistence.Parent, source string, rows []*models.TransportLeg) (int64, int64, error) {
	return replaceIn(c, "fact_transport_leg", p, source, rows)
}

func (c *fakeChildren) ReplaceCharges(_ context.Context, p persistence.Parent, source string, rows []*models.Charge) (int64, int64, error) {
	return replaceIn(c, "fact_charge", p, source, rows)
}

func (c *fakeChildren) ReplaceContainers(_ context.Context, p persistence.Parent, source string, rows []*models.Container) (int64, int64, error) {
	return replaceIn(c, "fact_container", p, source, rows)
}

func (c *fakeChildren) ReplacePackingLines(_ context.Context, p persistence.Parent, source string, rows []*models.PackingLine) (int64, int64, error) {
	return replaceIn(c, "fact_packing_line", p, source, rows)
}

func (c *fakeChildren) ReplaceDates(_ context.Context, p persistence.Parent, source string, rows []*models.DatedEvent) (int64, int64, error) {
	return replaceIn(c, "fact_date", p, source, rows)
}

func (c *fakeChildren) ReplaceExceptions(_ context.Context, p persistence.Parent, source string, rows []*models.Exception) (int64, int64, error) {
	return replaceIn(c, "fact_exception", p, source, rows)
}

func (c *fakeChildren) ReplaceMilestones(_ context.Context, p persistence.Parent, source string, rows []*models.Milestone) (int64, int64, error) {
	return replaceIn(c, "fact_milestone", p, source, rows)
}

func (c *fakeChildren) ReplaceNotes(_ context.Context, p persistence.Parent, source string, rows []*models.Note) (int64, int64, error) {
	return replaceIn(c, "fact_note", p, source, rows)
}

func (c *fakeChildren) ReplacePostings(_ context.Context, p persistence.Parent, source string, rows []*models.Posting) (int64, int64, error) {
	return replaceIn(c, "fact_posting", p, source, rows)
}
