package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "chronledger-cli",
		Short:         "Chronledger CLI tool",
		Long:          `A command line interface for interacting with the Chronledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Chronledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	client := func() *apiClient { return newAPIClient(baseURL, timeout, out) }

	rootCmd.AddCommand(
		balanceCmd(client),
		applyCmd(client),
		auditCmd(client),
		reconcileCmd(client),
		transferCmd(client),
		listingsCmd(client),
		sellCmd(client),
		cancelCmd(client),
		purchaseCmd(client),
		interestCmd(client),
		ledgerCmd(client),
	)

	return rootCmd
}

func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, value)
	}
	return id, nil
}

func parseAmount(name, value string) (int64, error) {
	amount, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, value)
	}
	return amount, nil
}

func balanceCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account>",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			return client().do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d/balance", id), nil)
		},
	}
}

func applyCmd(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <account> <delta> <reason...>",
		Short: "Apply a signed delta to an account",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			delta, err := parseAmount("delta", args[1])
			if err != nil {
				return err
			}
			return client().do(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%d/apply", id), map[string]any{
				"delta":  delta,
				"reason": strings.Join(args[2:], " "),
			})
		},
	}

	// Negative deltas must not be parsed as flags.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func auditCmd(client func() *apiClient) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "audit <account>",
		Short: "List an account's audit records, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))
			return client().do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d/audit?%s", id, query.Encode()), nil)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum records to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")

	return cmd
}

func reconcileCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <account>",
		Short: "Compare an account balance with its audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			return client().do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d/reconcile", id), nil)
		},
	}
}

func transferCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <payer> <payee> <amount>",
		Short: "Move funds between two accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			payer, err := parseID("payer", args[0])
			if err != nil {
				return err
			}
			payee, err := parseID("payee", args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount("amount", args[2])
			if err != nil {
				return err
			}
			return client().do(http.MethodPost, "/api/v1/transfers", map[string]int64{
				"payer_id": payer,
				"payee_id": payee,
				"amount":   amount,
			})
		},
	}
}

func listingsCmd(client func() *apiClient) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Browse open marketplace listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))
			return client().do(http.MethodGet, "/api/v1/listings?"+query.Encode(), nil)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum listings to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Listings to skip")

	return cmd
}

func sellCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <seller> <price> <item...>",
		Short: "Offer an item for sale",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			seller, err := parseID("seller", args[0])
			if err != nil {
				return err
			}
			price, err := parseAmount("price", args[1])
			if err != nil {
				return err
			}
			return client().do(http.MethodPost, "/api/v1/listings", map[string]any{
				"seller_id": seller,
				"price":     price,
				"item":      strings.Join(args[2:], " "),
			})
		},
	}
}

func cancelCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <listing>",
		Short: "Remove a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("listing", args[0])
			if err != nil {
				return err
			}
			return client().do(http.MethodDelete, fmt.Sprintf("/api/v1/listings/%d", id), nil)
		},
	}
}

func purchaseCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "purchase <listing> <buyer>",
		Short: "Buy a listing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := parseID("listing", args[0])
			if err != nil {
				return err
			}
			buyer, err := parseID("buyer", args[1])
			if err != nil {
				return err
			}
			return client().do(http.MethodPost, fmt.Sprintf("/api/v1/listings/%d/purchase", listing), map[string]int64{
				"buyer_id": buyer,
			})
		},
	}
}

func interestCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "interest <rate-percent>",
		Short: "Run an interest sweep at the given rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client().do(http.MethodPost, "/api/v1/interest", map[string]string{
				"rate_percent": args[0],
			})
		},
	}
}

func ledgerCmd(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return client().do(http.MethodGet, "/api/v1/ledger/consistency", nil)
		},
	})

	return cmd
}
