package address

// Network prefix bytes for Base58Check address encoding, one triple per
// network per address flavor. Values follow Monero's own convention
// (mirrored from the legacy address encoder this package's Carrot
// addresses replace).
const (
	MainNetwork  = 18
	TestNetwork  = 53
	StageNetwork = 24

	SubAddressMainNetwork  = 42
	SubAddressTestNetwork  = 63
	SubAddressStageNetwork = 36

	IntegratedMainNetwork  = 19
	IntegratedTestNetwork  = 54
	IntegratedStageNetwork = 25
)
