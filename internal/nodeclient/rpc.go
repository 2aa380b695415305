package nodeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type rpcRequest struct {
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int64         `json:"id"`
	JSONRpc string        `json:"jsonrpc"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Err    interface{}     `json:"error"`
}

// rawTx is the subset of a full node's decoded-transaction shape that
// RPCFetcher cares about.
type rawTx struct {
	TxID string `json:"txid"`
	Vin  []struct {
		TxID string `json:"txid"`
		Vout int    `json:"vout"`
	} `json:"vin"`
	Vout []struct {
		N     int     `json:"n"`
		Value float64 `json:"value"`
	} `json:"vout"`
}

// RPCFetcher resolves transactions against a Bitcoin-style full node's
// JSON-RPC interface, grounded on the teacher's node_client.RPCClient.
type RPCFetcher struct {
	Host     string
	Port     int
	User     string
	Password string

	client *http.Client
}

// NewRPCFetcher returns a Fetcher backed by host:port's JSON-RPC
// endpoint, authenticated with HTTP basic auth.
func NewRPCFetcher(host string, port int, user, password string) *RPCFetcher {
	return &RPCFetcher{Host: host, Port: port, User: user, Password: password, client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *RPCFetcher) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	req := rpcRequest{Method: method, Params: params, ID: time.Now().UnixNano(), JSONRpc: "1.0"}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return errors.Wrap(err, "nodeclient: encoding rpc request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("http://%s:%d", f.Host, f.Port), buf)
	if err != nil {
		return errors.Wrap(err, "nodeclient: building rpc request")
	}
	httpReq.SetBasicAuth(f.User, f.Password)
	httpReq.Header.Set("Content-Type", "application/json;charset=utf-8")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "nodeclient: rpc request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "nodeclient: reading rpc response")
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return errors.Wrapf(err, "nodeclient: decoding rpc response (status %s)", resp.Status)
	}

	if resp.StatusCode != http.StatusOK || rpcResp.Err != nil {
		if m, ok := rpcResp.Err.(map[string]interface{}); ok {
			if msg, ok := m["message"].(string); ok {
				return errors.Errorf("nodeclient: rpc error: %s", msg)
			}
		}
		return errors.Errorf("nodeclient: rpc call failed with status %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return errors.Wrap(err, "nodeclient: decoding rpc result")
	}
	return nil
}

// FetchTx implements Fetcher by calling getrawtransaction with
// verbosity 1, then resolving each input's previous output value with
// one further getrawtransaction call per distinct ancestor.
func (f *RPCFetcher) FetchTx(ctx context.Context, txID string) (*TxData, error) {
	var tx rawTx
	if err := f.call(ctx, "getrawtransaction", []interface{}{txID, 1}, &tx); err != nil {
		return nil, err
	}

	data := &TxData{TxID: tx.TxID}

	ancestorValues := make(map[string][]float64)
	for _, vin := range tx.Vin {
		if _, ok := ancestorValues[vin.TxID]; ok {
			continue
		}
		var ancestor rawTx
		if err := f.call(ctx, "getrawtransaction", []interface{}{vin.TxID, 1}, &ancestor); err != nil {
			return nil, errors.Wrapf(err, "nodeclient: resolving ancestor %s", vin.TxID)
		}
		values := make([]float64, len(ancestor.Vout))
		for _, out := range ancestor.Vout {
			values[out.N] = out.Value
		}
		ancestorValues[vin.TxID] = values
	}

	for i, vin := range tx.Vin {
		btc := ancestorValues[vin.TxID][vin.Vout]
		data.Inputs = append(data.Inputs, InputRef{
			ID:     fmt.Sprintf("input_%d", i),
			Amount: btcToSatoshis(btc),
		})
	}
	for i, vout := range tx.Vout {
		data.Outputs = append(data.Outputs, OutputRef{
			ID:     fmt.Sprintf("output_%d", i),
			Amount: btcToSatoshis(vout.Value),
		})
	}

	return data, nil
}

func btcToSatoshis(btc float64) int64 {
	return int64(btc*1e8 + 0.5)
}
