package solana

// Method is one of the JSON-RPC methods this client speaks.
type Method string

const (
	GetAccountInfo                    Method = "getAccountInfo"
	GetMultipleAccounts               Method = "getMultipleAccounts"
	GetBalance                        Method = "getBalance"
	GetMinimumBalanceForRentExemption Method = "getMinimumBalanceForRentExemption"
	RequestAirdrop                    Method = "requestAirdrop"
	GetRecentBlockhash                Method = "getRecentBlockhash"
	GetLatestBlockhash                Method = "getLatestBlockhash"
	SendTransaction                   Method = "sendTransaction"
	GetSignatureStatuses              Method = "getSignatureStatuses"
	GetSlot                           Method = "getSlot"
	GetBlockTime                      Method = "getBlockTime"
)

func (m Method) String() string { return string(m) }

// alternateBlockhashMethod returns the other spelling of the blockhash query.
// Older nodes only know getRecentBlockhash, newer ones only getLatestBlockhash.
func alternateBlockhashMethod(m Method) Method {
	if m == GetRecentBlockhash {
		return GetLatestBlockhash
	}
	return GetRecentBlockhash
}
