package ports

// Policy decides how the sampler treats a status record that exists but
// lacks VmRSS or VmSize.
type Policy struct {
	OnMissingField string `yaml:"on_missing_field"` // "absent", "fail"
}

const (
	MissingFieldAbsent = "absent"
	MissingFieldFail   = "fail"
)
