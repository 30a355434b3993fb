package rpcclient

import (
	"context"

	"github.com/Klingon-tech/klingnet-seed/internal/importer"
	"github.com/Klingon-tech/klingnet-seed/internal/rpc"
	"github.com/Klingon-tech/klingnet-seed/internal/wallet"
)

// CheckWords calls mnemonic_checkWords.
func (c *Client) CheckWords(ctx context.Context, text string) (*rpc.CheckWordsResult, error) {
	var out rpc.CheckWordsResult
	if err := c.Call(ctx, "mnemonic_checkWords", rpc.CheckWordsParam{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate calls mnemonic_validate. lang may be empty.
func (c *Client) Validate(ctx context.Context, phrase, lang string) (*rpc.ValidateResult, error) {
	var out rpc.ValidateResult
	if err := c.Call(ctx, "mnemonic_validate", rpc.ValidateParam{Mnemonic: phrase, Lang: lang}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportWallet calls wallet_import.
func (c *Client) ImportWallet(ctx context.Context, p rpc.WalletImportParam) (*rpc.WalletImportResult, error) {
	var out rpc.WalletImportResult
	if err := c.Call(ctx, "wallet_import", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWallets calls wallet_list.
func (c *Client) ListWallets(ctx context.Context) ([]*wallet.WalletInfo, error) {
	var out rpc.WalletListResult
	if err := c.Call(ctx, "wallet_list", nil, &out); err != nil {
		return nil, err
	}
	return out.Wallets, nil
}

// ListAccounts calls wallet_listAccounts.
func (c *Client) ListAccounts(ctx context.Context, name string) ([]wallet.AccountEntry, error) {
	var out rpc.WalletAccountsResult
	if err := c.Call(ctx, "wallet_listAccounts", rpc.WalletNameParam{Name: name}, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// ImportStatus calls import_getStatus.
func (c *Client) ImportStatus(ctx context.Context, id string) (*importer.Record, error) {
	var out importer.Record
	if err := c.Call(ctx, "import_getStatus", rpc.ImportIDParam{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListImports calls import_list.
func (c *Client) ListImports(ctx context.Context) ([]*importer.Record, error) {
	var out rpc.ImportListResult
	if err := c.Call(ctx, "import_list", nil, &out); err != nil {
		return nil, err
	}
	return out.Imports, nil
}
