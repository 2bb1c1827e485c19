package models

// Simulated method names. Each one is a key in MethodResults.
const (
	MethodLoadListingInformation = "LoadListingInformationAsync_GetResult"
	MethodRequestAppPurchase     = "RequestAppPurchaseAsync_GetResult"
	MethodRequestProductPurchase = "RequestProductPurchaseAsync_GetResult"
	MethodGetAppReceipt          = "GetAppReceiptAsync_GetResult"
	MethodGetProductReceipt      = "GetProductReceiptAsync_GetResult"
)

// MethodResults maps a simulated method name to whether the call succeeds
type MethodResults map[string]bool

// DefaultMethodResults returns every known method programmed to succeed
func DefaultMethodResults() MethodResults {
	return MethodResults{
		MethodLoadListingInformation: true,
		MethodRequestAppPurchase:     true,
		MethodRequestProductPurchase: true,
		MethodGetAppReceipt:          true,
		MethodGetProductReceipt:      true,
	}
}

// Succeeds reports whether method is programmed to succeed.
// Methods with no entry succeed.
func (mr MethodResults) Succeeds(method string) bool {
	ok, found := mr[method]
	return !found || ok
}

// Clone returns a copy of the method results
func (mr MethodResults) Clone() MethodResults {
	clone := make(MethodResults, len(mr))
	for k, v := range mr {
		clone[k] = v
	}
	return clone
}
