package izipay

import "streaming-app/internal/domain/payment"

// FormConfig is the configuration object the frontend hands to the
// gateway's hosted form together with the session token. Its shape
// follows the gateway SDK and is an adapter detail, not part of the
// orchestration contract.
type FormConfig struct {
	TransactionID string    `json:"transactionId"`
	Action        string    `json:"action"`
	MerchantCode  string    `json:"merchantCode"`
	Order         FormOrder `json:"order"`
	Render        struct {
		TypeForm              string `json:"typeForm"`
		ShowButtonProcessForm bool   `json:"showButtonProcessForm"`
	} `json:"render"`
	Appearance struct {
		Logo string `json:"logo,omitempty"`
	} `json:"appearance"`
}

type FormOrder struct {
	OrderNumber         string `json:"orderNumber"`
	Currency            string `json:"currency"`
	Amount              string `json:"amount"`
	ProcessType         string `json:"processType"`
	DateTimeTransaction int64  `json:"dateTimeTransaction"`
}

// FormConfigFor builds the hosted-form config for an attempt whose token
// was already obtained.
func (c *Client) FormConfigFor(a payment.Attempt) FormConfig {
	cfg := FormConfig{
		TransactionID: a.TransactionID,
		Action:        "pay",
		MerchantCode:  c.cfg.MerchantCode,
		Order: FormOrder{
			OrderNumber:         a.TransactionID,
			Currency:            a.Currency,
			Amount:              a.Amount,
			ProcessType:         "AT",
			DateTimeTransaction: a.StartedAt.Unix(),
		},
	}
	cfg.Render.TypeForm = "pop-up"
	cfg.Appearance.Logo = c.cfg.Logo
	return cfg
}
