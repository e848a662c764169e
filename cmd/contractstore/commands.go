// Copyright (c) 2025 UVM Labs
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at uvmlabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/uvmlabs/contractstore/jsondiff"
	"github.com/uvmlabs/contractstore/storage"
)

var saveCommand = cli.Command{
	Action:    save,
	Name:      "save",
	Usage:     "creates or replaces a contract record from a JSON file",
	ArgsUsage: "<contract-info.json>",
}

func save(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing contract info file")
	}
	value, err := readJSONFile(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	info := storage.ContractInfoFromJSON(value)
	if info == nil {
		return fmt.Errorf("%s does not hold a contract info object", ctx.Args().Get(0))
	}

	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	commitID, err := service.SaveContractInfo(info)
	if err != nil {
		return err
	}
	fmt.Printf("Saved contract %s, commit %s\n", info.ID, commitID)
	return nil
}

var commitCommand = cli.Command{
	Action:    commit,
	Name:      "commit",
	Usage:     "applies a change bundle from a JSON file",
	ArgsUsage: "<changes.json>",
}

func commit(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing change bundle file")
	}
	value, err := readJSONFile(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	changes := storage.ContractChangesFromJSON(value)
	if changes == nil {
		return fmt.Errorf("%s does not hold a change bundle object", ctx.Args().Get(0))
	}
	if changes.Empty() {
		return fmt.Errorf("change bundle is empty")
	}

	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	commitID, err := service.CommitContractChanges(changes)
	if err != nil {
		return err
	}
	fmt.Printf("Committed changes, commit %s\n", commitID)
	return nil
}

var infoCommand = cli.Command{
	Action:    info,
	Name:      "info",
	Usage:     "prints the record of a contract",
	ArgsUsage: "<contract-id>",
}

func info(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing contract id")
	}
	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	record, err := service.GetContractInfo(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("contract %s not found", ctx.Args().Get(0))
	}
	return printJSON(record.ToJSON())
}

var balancesCommand = cli.Command{
	Action:    balances,
	Name:      "balances",
	Usage:     "prints the balances of a contract",
	ArgsUsage: "<contract-id>",
}

func balances(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing contract id")
	}
	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	list, err := service.GetContractBalances(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	for _, balance := range list {
		fmt.Printf("asset %d: %d\n", balance.AssetID, balance.Amount)
	}
	return nil
}

var storageCommand = cli.Command{
	Action:    storageSlot,
	Name:      "storage",
	Usage:     "prints the value of one storage slot",
	ArgsUsage: "<contract-id> <slot-name>",
}

func storageSlot(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		return fmt.Errorf("usage: storage <contract-id> <slot-name>")
	}
	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	value, err := service.GetContractStorage(ctx.Args().Get(0), ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return printJSON(value)
}

var eventsCommand = cli.Command{
	Action:    events,
	Name:      "events",
	Usage:     "prints the events of a commit or a transaction",
	ArgsUsage: "(--commit <commit-id> | --tx <transaction-id>)",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "commit", Usage: "commit id to list events of"},
		&cli.StringFlag{Name: "tx", Usage: "transaction id to list events of"},
	},
}

func events(ctx *cli.Context) error {
	commitID := ctx.String("commit")
	txid := ctx.String("tx")
	if (commitID == "") == (txid == "") {
		return fmt.Errorf("exactly one of --commit and --tx is required")
	}
	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	var list []storage.ContractEventInfo
	if commitID != "" {
		list, err = service.GetCommitEvents(commitID)
	} else {
		list, err = service.GetTransactionEvents(txid)
	}
	if err != nil {
		return err
	}
	for _, event := range list {
		fmt.Printf("%s %s %s(%s)\n", event.TransactionID, event.ContractID, event.EventName, event.EventArg)
	}
	return nil
}

var rollbackCommand = cli.Command{
	Action:    rollback,
	Name:      "rollback",
	Usage:     "rewinds the store to a prior commit, destroying later commits",
	ArgsUsage: "<commit-id>",
}

func rollback(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing destination commit id")
	}
	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.RollbackContractState(ctx.Args().Get(0)); err != nil {
		return err
	}
	fmt.Printf("Rolled back to %s\n", ctx.Args().Get(0))
	return nil
}

var resetCommand = cli.Command{
	Action:    reset,
	Name:      "reset",
	Usage:     "moves the cursor to a prior commit without destroying anything",
	ArgsUsage: "<commit-id>",
}

func reset(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("missing destination commit id")
	}
	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.ResetRootStateHash(ctx.Args().Get(0)); err != nil {
		return err
	}
	fmt.Printf("Reset cursor to %s\n", ctx.Args().Get(0))
	return nil
}

var rootCommand = cli.Command{
	Action: root,
	Name:   "root",
	Usage:  "prints the current and top root state hashes",
}

func root(ctx *cli.Context) error {
	service, err := openService(ctx)
	if err != nil {
		return err
	}
	defer service.Close()

	current, err := service.CurrentRootStateHash()
	if err != nil {
		return err
	}
	top, err := service.TopRootStateHash()
	if err != nil {
		return err
	}
	fmt.Printf("current: %s\ntop:     %s\n", current, top)
	return nil
}

var addressCommand = cli.Command{
	Action:    address,
	Name:      "address",
	Usage:     "derives a contract address from creator, txid, and bytecode file",
	ArgsUsage: "<creator-address> <txid> <bytecode-file>",
}

func address(ctx *cli.Context) error {
	if ctx.Args().Len() != 3 {
		return fmt.Errorf("usage: address <creator-address> <txid> <bytecode-file>")
	}
	bytecode, err := os.ReadFile(ctx.Args().Get(2))
	if err != nil {
		return err
	}
	fmt.Println(storage.MakeContractAddress(ctx.Args().Get(0), ctx.Args().Get(1), bytecode))
	return nil
}

func readJSONFile(path string) (jsondiff.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	value, err := jsondiff.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if value == nil {
		return nil, errors.New("empty JSON document")
	}
	return value, nil
}

func printJSON(value jsondiff.Value) error {
	encoded, err := jsondiff.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
