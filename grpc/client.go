package sogrpc

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	superorganism "github.com/sea212/Masterthesis-Superorganism"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

// Compile-time interface check.
var _ superorganism.Connection = (*Client)(nil)

// Client implements superorganism.Connection for a remote registry
// service over gRPC using cramberry serialization.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to a remote registry service. The connection is
// established lazily on the first call.
func Dial(_ context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("sogrpc: dial %s: %w", addr, err)
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

func (c *Client) Registry(ctx context.Context) (types.RegistryDocument, error) {
	resp := new(types.RegistryDocument)
	if err := c.cc.Invoke(ctx, fullMethod("Registry"), &RegistryRequest{}, resp); err != nil {
		return types.RegistryDocument{}, fromStatus(err)
	}
	return *resp, nil
}

func (c *Client) Resolve(ctx context.Context, name string) (types.Resolution, error) {
	resp := new(types.Resolution)
	if err := c.cc.Invoke(ctx, fullMethod("Resolve"), &ResolveRequest{Name: name}, resp); err != nil {
		return types.Resolution{}, fromStatus(err)
	}
	return *resp, nil
}

func (c *Client) Encode(ctx context.Context, v types.Value) (types.Encoded, error) {
	req, err := v.Tagged()
	if err != nil {
		return types.Encoded{}, err
	}
	resp := new(types.Encoded)
	if err := c.cc.Invoke(ctx, fullMethod("Encode"), &req, resp); err != nil {
		return types.Encoded{}, fromStatus(err)
	}
	return *resp, nil
}

func (c *Client) Decode(ctx context.Context, enc types.Encoded) (types.Value, error) {
	resp := new(types.Value)
	if err := c.cc.Invoke(ctx, fullMethod("Decode"), &enc, resp); err != nil {
		return types.Value{}, fromStatus(err)
	}
	return resp.Tagged()
}

func (c *Client) State(ctx context.Context) (types.StateReport, error) {
	resp := new(types.StateReport)
	if err := c.cc.Invoke(ctx, fullMethod("State"), &StateRequest{}, resp); err != nil {
		return types.StateReport{}, fromStatus(err)
	}
	return *resp, nil
}

func (c *Client) Rotate(ctx context.Context, next types.States) (types.StateReport, error) {
	resp := new(types.StateReport)
	var trailer metadata.MD
	if err := c.cc.Invoke(ctx, fullMethod("Rotate"), &RotateRequest{State: next}, resp, grpc.Trailer(&trailer)); err != nil {
		rep, _ := reportFromTrailer(trailer)
		return rep, fromStatus(err)
	}
	return *resp, nil
}

// fromStatus maps gRPC status codes back onto service errors so that
// errors.Is works the same as against a local connection.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w (remote: %s)", superorganism.ErrUnknownType, st.Message())
	case codes.FailedPrecondition:
		if te, ok := parseTransition(st.Message()); ok {
			return te
		}
		return fmt.Errorf("%w (remote: %s)", superorganism.ErrIllegalTransition, st.Message())
	case codes.Canceled:
		return fmt.Errorf("%w (remote: %s)", context.Canceled, st.Message())
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w (remote: %s)", context.DeadlineExceeded, st.Message())
	default:
		return err
	}
}

// parseTransition recovers a TransitionError from its Error() text.
func parseTransition(msg string) (*superorganism.TransitionError, bool) {
	rest, ok := strings.CutPrefix(msg, superorganism.ErrIllegalTransition.Error()+": ")
	if !ok {
		return nil, false
	}
	fromName, toName, ok := strings.Cut(rest, " -> ")
	if !ok {
		return nil, false
	}
	from, err := types.ParseState(fromName)
	if err != nil {
		return nil, false
	}
	to, err := types.ParseState(toName)
	if err != nil {
		return nil, false
	}
	return superorganism.NewTransitionError(from, to), true
}
