package validator

// RootClass is a set-once handle to the universal base class. It stays
// empty until a declaration of the root class is validated; hierarchy
// lookups consult it only once it is set.
type RootClass struct {
	rec *ClassRecord
}

// Set binds the handle. Later calls are ignored and return false.
func (r *RootClass) Set(rec *ClassRecord) bool {
	if r.rec != nil {
		return false
	}
	r.rec = rec
	return true
}

// Get returns the root class record, if declared.
func (r *RootClass) Get() (*ClassRecord, bool) {
	return r.rec, r.rec != nil
}
