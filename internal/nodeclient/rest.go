package nodeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// blockchainInfoRawTx mirrors the shape returned by blockchain.info's
// rawtx endpoint, grounded on original_source/src/main.cpp's GET
// against https://blockchain.info/rawtx/<txhash>.
type blockchainInfoRawTx struct {
	Hash string `json:"hash"`
	Inputs []struct {
		PrevOut struct {
			Value int64  `json:"value"` // satoshis, already integral
			N     int    `json:"n"`
			TxID  string `json:"tx_index"`
		} `json:"prev_out"`
	} `json:"inputs"`
	Out []struct {
		Value int64 `json:"value"`
		N     int   `json:"n"`
	} `json:"out"`
}

// RESTFetcher resolves transactions against a public block explorer's
// REST API, defaulting to blockchain.info's rawtx endpoint. It exists
// so txflow can be pointed at a transaction without running a full
// node, the way the original tool's curl-based lookup did.
type RESTFetcher struct {
	BaseURL string // e.g. "https://blockchain.info/rawtx"
	client  *http.Client
}

// NewRESTFetcher returns a Fetcher that GETs baseURL/<txID>. An empty
// baseURL defaults to blockchain.info's public endpoint.
func NewRESTFetcher(baseURL string) *RESTFetcher {
	if baseURL == "" {
		baseURL = "https://blockchain.info/rawtx"
	}
	return &RESTFetcher{BaseURL: baseURL, client: &http.Client{Timeout: 30 * time.Second}}
}

// FetchTx implements Fetcher.
func (f *RESTFetcher) FetchTx(ctx context.Context, txID string) (*TxData, error) {
	url := fmt.Sprintf("%s/%s", f.BaseURL, txID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "nodeclient: building rest request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "nodeclient: rest request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "nodeclient: reading rest response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("nodeclient: rest lookup failed with status %s", resp.Status)
	}

	var raw blockchainInfoRawTx
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "nodeclient: decoding rest response")
	}

	data := &TxData{TxID: raw.Hash}
	for i, in := range raw.Inputs {
		data.Inputs = append(data.Inputs, InputRef{
			ID:     fmt.Sprintf("input_%d", i),
			Amount: in.PrevOut.Value,
		})
	}
	for i, out := range raw.Out {
		data.Outputs = append(data.Outputs, OutputRef{
			ID:     fmt.Sprintf("output_%d", i),
			Amount: out.Value,
		})
	}

	return data, nil
}
