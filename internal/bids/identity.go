package bids

// DataType is the BIDS data-type category a scan belongs to. Its value is
// the dataset directory name the category maps to.
type DataType string

const (
	DataTypeAnatomical DataType = "anat"
	DataTypeFunctional DataType = "func"
	DataTypeFieldMap   DataType = "fmap"
	DataTypeOther      DataType = "other"
)

// Directory returns the dataset directory for the category.
func (d DataType) Directory() string {
	return string(d)
}

// Identity is the derived BIDS entity set for one scan. Labels are already
// sanitized. Run is zero when the scan needs no run entity and Task is empty
// unless the scan is functional.
type Identity struct {
	Subject     string
	Session     string
	Acquisition string
	Task        string
	Run         int
	Suffix      string
	DataType    DataType
}

// collidesWith reports whether two identities would produce the same filename
// without a run entity.
func (id Identity) collidesWith(other Identity) bool {
	return id.Subject == other.Subject &&
		id.Session == other.Session &&
		id.Acquisition == other.Acquisition &&
		id.Task == other.Task &&
		id.Suffix == other.Suffix
}
