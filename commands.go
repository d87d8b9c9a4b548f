package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"chatkit/api"
	"chatkit/notify"

	"github.com/spf13/cobra"
)

func postCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "post <target> [json]",
		Short: "POST a JSON payload and print the response",
		Long: `Post sends the JSON payload (second argument, or stdin when omitted) to
target with Content-Type: application/json. Relative targets are resolved
against api_root. The decoded response is printed indented; with --raw the
status line and body are printed as received.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.logMetrics()

			var text []byte
			if len(args) == 2 {
				text = []byte(args[1])
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read payload: %w", err)
				}
				text = b
			}
			if !json.Valid(text) {
				return fmt.Errorf("payload is not valid JSON")
			}
			// Sent as written; decoding would round large numbers.
			payload := json.RawMessage(text)

			p, err := a.api.Post(cmd.Context(), args[0], payload, api.ParseJSON(!raw))
			if err != nil {
				return err
			}
			res, err := p.Wait()
			out := cmd.OutOrStdout()
			if err != nil {
				if resp, ok := api.ResponseFromError(err); ok {
					defer resp.Body.Close()
					fmt.Fprintln(out, resp.Status)
					_, _ = io.Copy(out, resp.Body)
				}
				return err
			}

			if raw {
				defer res.Response.Body.Close()
				fmt.Fprintln(out, res.Response.Status)
				_, err := io.Copy(out, res.Response.Body)
				return err
			}
			return printJSON(out, res.Value)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw response instead of decoding it")

	return cmd
}

func notifyCmd(a *app) *cobra.Command {
	var sinks []string

	cmd := &cobra.Command{
		Use:   "notify <message...>",
		Short: "Send a message through the configured notification sinks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sinks) == 0 {
				sinks = a.cfg.Notifier.Sinks
			}
			n, err := notify.Build(a.cfg, sinks, notify.Deps{
				API:    a.api,
				Out:    cmd.OutOrStdout(),
				In:     cmd.InOrStdin(),
				Logger: a.log,
			})
			if err != nil {
				return err
			}

			message := strings.Join(args, " ")
			notifyErr := n.Notify(cmd.Context(), message)
			if err := notify.Close(n); err != nil {
				a.log.Warnf("Closing notification sinks: %v", err)
			}
			return notifyErr
		},
	}

	cmd.Flags().StringSliceVar(&sinks, "sink", nil, "Sinks to use instead of notifier.sinks (console, log, prompt, desktop, telegram, websocket)")

	return cmd
}

func registerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account on the chat server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.api.Register(cmd.Context(), api.Credentials{Username: args[0], Password: args[1]})
			if err != nil {
				return describeFailure(err)
			}
			a.log.Infof("Registered %s", args[0])
			return nil
		},
	}
}

func loginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and print the session token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.api.Login(cmd.Context(), api.Credentials{Username: args[0], Password: args[1]})
			if err != nil {
				return describeFailure(err)
			}
			return printJSON(cmd.OutOrStdout(), sess)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chatkit %s (%s) %s %s/%s\n",
				version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// describeFailure appends the server's message to a status failure. The auth
// wrappers buffer the body, so reading it here is safe.
func describeFailure(err error) error {
	resp, ok := api.ResponseFromError(err)
	if !ok {
		return err
	}
	body, _ := io.ReadAll(resp.Body)
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json indent: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
