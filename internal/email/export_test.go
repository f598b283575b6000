package email

// NewResendClientAt points the Resend client at a test server.
func NewResendClientAt(endpoint, apiKey, fromAddr, fromName string) Sender {
	return newResendClient(endpoint, apiKey, fromAddr, fromName)
}
