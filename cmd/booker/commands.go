package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/seat-booking/internal/booking"
	"github.com/iliyamo/seat-booking/internal/config"
	"github.com/iliyamo/seat-booking/internal/gateway"
	"github.com/iliyamo/seat-booking/internal/seating"
	"github.com/iliyamo/seat-booking/internal/view"
)

// User-facing messages.
const (
	msgInvalidCount = "Please enter a valid number of seats."
	msgTooMany      = "You can book a maximum of 7 seats at a time."
	msgInsufficient = "Not enough seats available to fulfill your booking."
	msgBookFailed   = "Failed to book seats. Please try again later."
	msgResetFailed  = "Failed to reset bookings."
	msgLoadFailed   = "Error loading seat data. Please try again later."
	msgBusy         = "Another request is still in progress. Please wait."
)

func newSession(baseURL string, timeout time.Duration) *booking.Session {
	return booking.NewSession(gateway.NewClient(baseURL, timeout))
}

type cli struct {
	gatewayURL string
	timeout    time.Duration
	out, errw  io.Writer
}

func newRootCmd(gw config.GatewayConfig, out, errw io.Writer) *cobra.Command {
	c := &cli{out: out, errw: errw}

	root := &cobra.Command{
		Use:           "booker",
		Short:         "Seat booking CLI",
		Long:          `Book seats on the 11 x 7 grid, see what is free and reset all bookings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.gatewayURL, "gateway", gw.BaseURL, "seat gateway base URL")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", gw.Timeout, "per-request timeout")
	root.SetOut(out)
	root.SetErr(errw)

	seats := &cobra.Command{
		Use:   "seats",
		Short: "Show the seat grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeats(cmd.Context())
		},
	}
	book := &cobra.Command{
		Use:   "book N",
		Short: "Book N seats (1 to 7)",
		Long:  `Book N seats, preferring a single row; otherwise the earliest free seats are used.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBook(cmd.Context(), args[0])
		},
	}
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Release every booked seat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReset(cmd.Context())
		},
	}
	root.AddCommand(seats, book, reset)
	return root
}

func (c *cli) session(ctx context.Context) (*booking.Session, error) {
	s := newSession(c.gatewayURL, c.timeout)
	if err := s.Load(ctx); err != nil {
		return nil, c.fail(msgLoadFailed, err)
	}
	return s, nil
}

func (c *cli) runSeats(ctx context.Context) error {
	s, err := c.session(ctx)
	if err != nil {
		return err
	}
	return view.Board(c.out, s.Snapshot())
}

func (c *cli) runBook(ctx context.Context, arg string) error {
	n, err := parseCount(arg)
	if err != nil {
		return c.fail(msgInvalidCount, err)
	}
	// reject the count before touching the gateway
	if n > seating.MaxPerRequest {
		return c.fail(msgTooMany, seating.ErrTooManyRequested)
	}
	s, err := c.session(ctx)
	if err != nil {
		return err
	}
	conf, err := s.Book(ctx, n)
	if err != nil {
		return c.fail(bookMessage(err), err)
	}
	if err := view.Board(c.out, s.Snapshot()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, view.Success(conf.Message))
	return err
}

func (c *cli) runReset(ctx context.Context) error {
	s := newSession(c.gatewayURL, c.timeout)
	msg, err := s.Reset(ctx)
	if err != nil {
		if errors.Is(err, booking.ErrBusy) {
			return c.fail(msgBusy, err)
		}
		return c.fail(msgResetFailed, err)
	}
	if err := view.Board(c.out, s.Snapshot()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, view.Success(msg))
	return err
}

// fail prints msg to the error stream and returns err for the exit code.
func (c *cli) fail(msg string, err error) error {
	fmt.Fprintln(c.errw, view.Error(msg))
	return err
}

// parseCount accepts a positive integer; anything else is invalid.
func parseCount(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n <= 0 {
		return 0, seating.ErrInvalidRequestCount
	}
	return n, nil
}

func bookMessage(err error) string {
	switch {
	case errors.Is(err, seating.ErrInvalidRequestCount):
		return msgInvalidCount
	case errors.Is(err, seating.ErrTooManyRequested):
		return msgTooMany
	case errors.Is(err, seating.ErrInsufficientSeats):
		return msgInsufficient
	case errors.Is(err, booking.ErrBusy):
		return msgBusy
	}
	return msgBookFailed
}
