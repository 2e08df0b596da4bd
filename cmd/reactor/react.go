package main

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/cartesi/pos-dlib/core"
	"github.com/cartesi/pos-dlib/dapp"
)

type reactLine struct {
	File     string         `json:"file"`
	Reaction *core.Reaction `json:"reaction,omitempty"`
	CallData string         `json:"calldata,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func newReactCmd(a *app) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "react --variant NAME instance.json...",
		Short: "Decide what to submit for each instance file",
		Long: `Reads instance JSON files, decodes each one as the given variant and
prints one JSON line per file with the reaction and, for transactions,
the ABI calldata. Decode failures are reported per file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := dapp.ParseKind(variant)
			if err != nil {
				return err
			}
			jobs := make([]dapp.Job, len(args))
			for i, path := range args {
				inst, err := readInstance(path)
				if err != nil {
					return err
				}
				jobs[i] = dapp.Job{Kind: kind, Instance: inst}
			}

			engine := dapp.NewEngine(nil, nil, a.logger)
			results, err := engine.ReactAll(cmd.Context(), jobs, a.cfg.Workers)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			failed, undecodable := 0, 0
			for i, res := range results {
				line := reactLine{File: args[i]}
				if res.Err != nil {
					line.Error = res.Err.Error()
					failed++
					if dapp.IsDecodeError(res.Err) {
						undecodable++
					}
				} else {
					r := res.Reaction
					line.Reaction = &r
					if !r.IsIdle() {
						data, err := r.Transaction.CallData()
						if err != nil {
							return err
						}
						line.CallData = hexutil.Encode(data)
					}
				}
				if err := enc.Encode(line); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d instances failed (%d undecodable)", failed, len(results), undecodable)
			}
			return nil
		},
	}
	variantFlag(cmd, &variant)
	return cmd
}

func newPrettyCmd(a *app) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "pretty --variant NAME instance.json",
		Short: "Print an instance with its state decoded into named fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := dapp.ParseKind(variant)
			if err != nil {
				return err
			}
			inst, err := readInstance(args[0])
			if err != nil {
				return err
			}
			arch, closeDB, err := a.openArchive()
			if err != nil {
				return err
			}
			defer closeDB()

			pretty, err := dapp.NewEngine(arch, nil, a.logger).PrettyInstance(kind, inst)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pretty)
		},
	}
	variantFlag(cmd, &variant)
	return cmd
}
