package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Audit reason labels written by the ledger's own flows. Callers of Apply
// supply their own free-text reasons.

func TransferOutReason(payeeID int64) string {
	return fmt.Sprintf("transfer to %d", payeeID)
}

func TransferInReason(payerID int64) string {
	return fmt.Sprintf("transfer from %d", payerID)
}

func MarketBuyReason(listingID int64) string {
	return fmt.Sprintf("market buy %d", listingID)
}

func MarketSellReason(listingID int64) string {
	return fmt.Sprintf("market sell %d", listingID)
}

func MarketRefundReason(listingID int64) string {
	return fmt.Sprintf("market refund %d", listingID)
}

func InterestReason(ratePercent decimal.Decimal) string {
	return fmt.Sprintf("interest %s%%", ratePercent.String())
}
