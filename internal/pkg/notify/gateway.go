package notify

import (
	"context"
	"net/http"

	"github.com/gopherairtime/gopherairtime/app/models"
	"github.com/gopherairtime/gopherairtime/internal/pkg/env"
)

// VumiGateway sends recipient SMS notifications, picking the conversation
// credentials off the owning project for every send.
type VumiGateway struct {
	httpClient *http.Client
	apiURL     string
}

// NewVumiGatewayFromEnv builds the gateway from VUMIGO_API_URL.
func NewVumiGatewayFromEnv(httpClient *http.Client) *VumiGateway {
	return &VumiGateway{
		httpClient: httpClient,
		apiURL:     env.GetEnv("VUMIGO_API_URL", "https://go.vumi.org/api/v1/go/http_api"),
	}
}

// NewVumiGateway builds the gateway with an explicit API URL, used by tests.
func NewVumiGateway(httpClient *http.Client, apiURL string) *VumiGateway {
	return &VumiGateway{httpClient: httpClient, apiURL: apiURL}
}

// Send delivers one message through the project's conversation.
func (g *VumiGateway) Send(ctx context.Context, project models.Project, msisdn, message string) error {
	sender := NewSMSSender(g.httpClient, g.apiURL, project.AccountID, project.ConversationID, project.ConversationToken)
	return sender.Send(ctx, msisdn, message)
}
