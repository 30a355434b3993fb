package rpcclient

import (
	"context"
	"sync"
	"time"

	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/Klingon-tech/klingnet-seed/internal/rpc"
)

// DefaultImportTimeout bounds one remote import.
const DefaultImportTimeout = 2 * time.Minute

// ImportResultFunc observes a finished remote import. res is nil when err
// is set.
type ImportResultFunc func(req onboard.ImportRequest, res *rpc.WalletImportResult, err error)

// RemoteDispatcher sends import requests to a daemon with wallet_import.
// Dispatch returns at once; the call runs in its own goroutine.
type RemoteDispatcher struct {
	client   *Client
	name     string
	password string
	lang     string
	timeout  time.Duration
	onResult ImportResultFunc

	wg sync.WaitGroup
}

// NewRemoteDispatcher creates a dispatcher importing into wallet name
// (empty for the daemon's default) protected by password.
func NewRemoteDispatcher(c *Client, name, password string, onResult ImportResultFunc) *RemoteDispatcher {
	return &RemoteDispatcher{
		client:   c,
		name:     name,
		password: password,
		timeout:  DefaultImportTimeout,
		onResult: onResult,
	}
}

// SetLang sets the language for error messages returned by the daemon.
func (d *RemoteDispatcher) SetLang(lang string) { d.lang = lang }

// Dispatch implements onboard.Dispatcher.
func (d *RemoteDispatcher) Dispatch(req onboard.ImportRequest) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		res, err := d.client.ImportWallet(ctx, rpc.WalletImportParam{
			ID:       req.ID,
			Name:     d.name,
			Password: d.password,
			Mnemonic: req.Mnemonic,
			Indexes:  req.DerivationIndexes,
			Lang:     d.lang,
		})
		if d.onResult != nil {
			d.onResult(req, res, err)
		}
	}()
}

// Wait blocks until every dispatched import has finished.
func (d *RemoteDispatcher) Wait() {
	d.wg.Wait()
}

var _ onboard.Dispatcher = (*RemoteDispatcher)(nil)
