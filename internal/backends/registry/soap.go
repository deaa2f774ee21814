package registry

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"paneld/internal/types"

	log "github.com/sirupsen/logrus"
	"github.com/tiaguinho/gosoap"
)

const (
	serviceDescriptionPath = "/CustomerService?wsdl"

	operationGetAllCustomers = "getAllCustomers"
)

// Failure causes. The facade collapses them to one user-facing outcome, so
// the cause label in logs is the only place they stay distinguishable.
const (
	causeDescriptionFetch = "wsdl_fetch"
	causeCall             = "call"
	causeDecode           = "decode"
)

// Adapter lists customers from the remote SOAP registry. The protocol client
// is derived from the service description at <baseURL>/CustomerService?wsdl,
// cached after the first successful fetch and rebuilt after a failed call.
// All outbound traffic is bounded by the configured timeout.
type Adapter struct {
	baseURL    string
	httpClient *http.Client

	// gosoap clients carry per-call state, so calls are serialized.
	mu   sync.Mutex
	soap *gosoap.Client
}

func NewAdapter(baseURL string, timeout time.Duration) *Adapter {
	return &Adapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// getAllCustomersResponse mirrors the registry's envelope: the customer list
// lives under return > customers. A missing or empty payload decodes to the
// zero value, which is "no customers", not an error.
type getAllCustomersResponse struct {
	Return struct {
		Customers []soapCustomer `xml:"customers"`
	} `xml:"return"`
}

type soapCustomer struct {
	ID    string `xml:"id"`
	Name  string `xml:"name"`
	Email string `xml:"email"`
}

// ListForTenant fetches every customer registered for tenantID and normalizes
// them to canonical records. tenantID is opaque; only non-emptiness is
// checked. Network, description-fetch and envelope failures all wrap
// types.ErrRegistryUnavailable with the cause kept in logs.
func (a *Adapter) ListForTenant(ctx context.Context, tenantID string) ([]types.ClientRecord, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, types.Err(types.ErrValidation, nil, "tenantId is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, a.unavailable(causeCall, err)
	}
	if a.soap == nil {
		cli, err := gosoap.SoapClient(a.baseURL+serviceDescriptionPath, a.httpClient)
		if err != nil {
			return nil, a.unavailable(causeDescriptionFetch, err)
		}
		a.soap = cli
	}
	res, err := a.soap.Call(operationGetAllCustomers, gosoap.Params{"tenantId": tenantID})
	if err != nil {
		// Force a fresh service description on the next call.
		a.soap = nil
		return nil, a.unavailable(causeCall, err)
	}
	var envelope getAllCustomersResponse
	if err := res.Unmarshal(&envelope); err != nil {
		return nil, a.unavailable(causeDecode, err)
	}
	raws := make([]types.RawClient, 0, len(envelope.Return.Customers))
	for _, c := range envelope.Return.Customers {
		raws = append(raws, types.RawClient{ID: c.ID, Name: c.Name, Email: c.Email})
	}
	return types.NormalizeClients(raws), nil
}

func (a *Adapter) unavailable(cause string, err error) error {
	log.WithError(err).WithFields(log.Fields{
		"cause":   cause,
		"baseURL": a.baseURL,
	}).Error("customer registry unavailable")
	return types.Err(types.ErrRegistryUnavailable, err, "registry %s failed", cause)
}

// TenantLister binds an Adapter to the tenant chosen at startup, adapting it
// to the directory's listing contract. The registry exposes no create
// operation; creation stays on the file-backed path.
type TenantLister struct {
	adapter  *Adapter
	tenantID string
}

func NewTenantLister(a *Adapter, tenantID string) *TenantLister {
	return &TenantLister{adapter: a, tenantID: tenantID}
}

func (l *TenantLister) List(ctx context.Context) ([]types.ClientRecord, error) {
	return l.adapter.ListForTenant(ctx, l.tenantID)
}
