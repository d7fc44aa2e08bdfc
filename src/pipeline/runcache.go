package pipeline

import "observatory-datastreams/src/storage"

// RunCache memoizes reference lookups for the lifetime of a single
// pipeline run. It is created by Run and discarded with it, never
// shared across runs, so a catalog edit between runs is always picked
// up.
type RunCache struct {
	store *storage.Storage

	variables     map[string]*storage.Variable
	units         map[string]*storage.Unit
	quantityKinds map[string]*storage.QuantityKind
	ranges        map[int64]*storage.VariableRange
}

func NewRunCache(store *storage.Storage) *RunCache {
	return &RunCache{
		store:         store,
		variables:     map[string]*storage.Variable{},
		units:         map[string]*storage.Unit{},
		quantityKinds: map[string]*storage.QuantityKind{},
		ranges:        map[int64]*storage.VariableRange{},
	}
}

func (c *RunCache) Variable(term string) (*storage.Variable, error) {
	if v, ok := c.variables[term]; ok {
		return v, nil
	}
	v, err := c.store.VariableByTerm(term)
	if err != nil {
		return nil, err
	}
	c.variables[term] = v
	return v, nil
}

func (c *RunCache) Unit(term string) (*storage.Unit, error) {
	if u, ok := c.units[term]; ok {
		return u, nil
	}
	u, err := c.store.UnitByTerm(term)
	if err != nil {
		return nil, err
	}
	c.units[term] = u
	return u, nil
}

func (c *RunCache) QuantityKind(term string) (*storage.QuantityKind, error) {
	if qk, ok := c.quantityKinds[term]; ok {
		return qk, nil
	}
	qk, err := c.store.QuantityKindByTerm(term)
	if err != nil {
		return nil, err
	}
	c.quantityKinds[term] = qk
	return qk, nil
}

func (c *RunCache) VariableRange(variableID int64) (*storage.VariableRange, error) {
	if r, ok := c.ranges[variableID]; ok {
		return r, nil
	}
	r, err := c.store.VariableRangeByID(variableID)
	if err != nil {
		return nil, err
	}
	c.ranges[variableID] = r
	return r, nil
}
