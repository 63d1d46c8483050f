package dto

// Vendor callback payloads. Field names follow Daraja's casing exactly.

// STKCallbackEnvelope is the body Daraja posts after an STK Push settles.
type STKCallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        *int   `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []CallbackMetadataItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackMetadataItem is one entry of the STK callback metadata list.
type CallbackMetadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// ResultEnvelope is the body Daraja posts on the shared result endpoint
// for B2C, B2B, balance, status-query, and reversal flows.
type ResultEnvelope struct {
	Result struct {
		ResultType               int    `json:"ResultType"`
		ResultCode               *int   `json:"ResultCode"`
		ResultDesc               string `json:"ResultDesc"`
		OriginatorConversationID string `json:"OriginatorConversationID"`
		ConversationID           string `json:"ConversationID"`
		TransactionID            string `json:"TransactionID"`
		ResultParameters         struct {
			ResultParameter []ResultParameterItem `json:"ResultParameter"`
		} `json:"ResultParameters"`
	} `json:"Result"`
}

// ResultParameterItem is one entry of a result parameter list.
type ResultParameterItem struct {
	Key   string `json:"Key"`
	Value any    `json:"Value"`
}

// TimeoutPayload is the body Daraja posts when an async request expires in
// its queue. Unlike the result callback the fields arrive at the top level;
// a Result-wrapped variant is accepted as a fallback.
type TimeoutPayload struct {
	ConversationID           string         `json:"ConversationID"`
	OriginatorConversationID string         `json:"OriginatorConversationID"`
	ResultType               int            `json:"ResultType"`
	ResultCode               *int           `json:"ResultCode"`
	ResultDesc               string         `json:"ResultDesc"`
	Result                   *TimeoutResult `json:"Result"`
}

// TimeoutResult is the Result-wrapped form of the timeout fields.
type TimeoutResult struct {
	ConversationID           string `json:"ConversationID"`
	OriginatorConversationID string `json:"OriginatorConversationID"`
	ResultType               int    `json:"ResultType"`
	ResultCode               *int   `json:"ResultCode"`
	ResultDesc               string `json:"ResultDesc"`
}

// Normalize returns the conversation id, result code and description from
// whichever shape the payload used. The flat fields win when present.
func (p TimeoutPayload) Normalize() (conversationID string, resultCode *int, resultDesc string) {
	if p.ConversationID == "" && p.Result != nil {
		return p.Result.ConversationID, p.Result.ResultCode, p.Result.ResultDesc
	}
	return p.ConversationID, p.ResultCode, p.ResultDesc
}
