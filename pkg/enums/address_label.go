package enums

// AddressLabel tags a saved address.
type AddressLabel string

const (
	AddressLabelHome  AddressLabel = "Home"
	AddressLabelWork  AddressLabel = "Work"
	AddressLabelOther AddressLabel = "Other"
)

var addressLabels = set[AddressLabel]{AddressLabelHome, AddressLabelWork, AddressLabelOther}

func (a AddressLabel) String() string { return string(a) }

func (a AddressLabel) IsValid() bool { return addressLabels.has(a) }

// OrDefault labels an untagged address as Home.
func (a AddressLabel) OrDefault() AddressLabel {
	if a == "" {
		return AddressLabelHome
	}
	return a
}

func ParseAddressLabel(value string) (AddressLabel, error) {
	return addressLabels.parse("address label", value)
}
