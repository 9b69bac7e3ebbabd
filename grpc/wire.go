package sogrpc

import (
	"strconv"

	"google.golang.org/grpc/metadata"

	"github.com/sea212/Masterthesis-Superorganism/types"
)

// Request wrappers for RPCs whose interface signatures don't map to a
// single request struct. Responses reuse the types package directly.

// RegistryRequest is the (empty) request for TypeService.Registry.
type RegistryRequest struct{}

// ResolveRequest wraps the parameter for TypeService.Resolve.
type ResolveRequest struct {
	Name string `cramberry:"1"`
}

// StateRequest is the (empty) request for TypeService.State.
type StateRequest struct{}

// RotateRequest wraps the parameter for TypeService.Rotate.
type RotateRequest struct {
	State types.States `cramberry:"1"`
}

// Trailer keys carrying the current report of a rejected rotation.
const (
	trailerState = "so-state"
	trailerRound = "so-round"
)

func reportTrailer(rep types.StateReport) metadata.MD {
	return metadata.Pairs(
		trailerState, rep.State.String(),
		trailerRound, strconv.Itoa(int(rep.Round)),
	)
}

func reportFromTrailer(md metadata.MD) (types.StateReport, bool) {
	states, rounds := md.Get(trailerState), md.Get(trailerRound)
	if len(states) != 1 || len(rounds) != 1 {
		return types.StateReport{}, false
	}
	s, err := types.ParseState(states[0])
	if err != nil {
		return types.StateReport{}, false
	}
	r, err := strconv.ParseUint(rounds[0], 10, 8)
	if err != nil {
		return types.StateReport{}, false
	}
	return types.StateReport{State: s, Round: uint8(r)}, true
}
