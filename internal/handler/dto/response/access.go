package response

type AccessResponse struct {
	HasAccess bool `json:"has_access"`
}
