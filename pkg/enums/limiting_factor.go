package enums

// LimitingFactor names the credit tier that blocked (or would next block) an
// order. When both tiers are equally binding the company tier is reported.
type LimitingFactor string

const (
	LimitingFactorCompany LimitingFactor = "company"
	LimitingFactorUser    LimitingFactor = "user"
)

// String implements fmt.Stringer.
func (f LimitingFactor) String() string {
	return string(f)
}
