package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/cartesi/pos-dlib/codec"
	"github.com/cartesi/pos-dlib/core"
	"github.com/cartesi/pos-dlib/dapp"
)

// Handler serves RPC methods on top of a decision engine.
type Handler struct {
	engine *dapp.Engine
}

// NewHandler creates an RPC Handler.
func NewHandler(engine *dapp.Engine) *Handler {
	return &Handler{engine: engine}
}

// ReactResult is the result of the react method. CallData is set only when
// the reaction is a transaction.
type ReactResult struct {
	Reaction core.Reaction `json:"reaction"`
	CallData string        `json:"calldata,omitempty"`
}

// Dispatch routes an RPC request to the correct method.
func (h *Handler) Dispatch(req Request) Response {
	switch req.Method {
	case "listVariants":
		names := make([]string, 0, len(dapp.Kinds()))
		for _, k := range dapp.Kinds() {
			names = append(names, k.String())
		}
		return okResponse(req.ID, names)

	case "react":
		return h.react(req)

	case "getPrettyInstance":
		return h.getPrettyInstance(req)

	default:
		return errResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

// instanceParams is shared by react and getPrettyInstance.
type instanceParams struct {
	Variant  dapp.Kind      `json:"variant"`
	Instance *core.Instance `json:"instance"`
}

func parseInstanceParams(req Request) (instanceParams, *Response) {
	var params instanceParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		resp := errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
		return params, &resp
	}
	if params.Variant == 0 {
		resp := errResponse(req.ID, CodeInvalidParams, "variant is required")
		return params, &resp
	}
	if params.Instance == nil {
		resp := errResponse(req.ID, CodeInvalidParams, "instance is required")
		return params, &resp
	}
	return params, nil
}

func (h *Handler) react(req Request) Response {
	params, errResp := parseInstanceParams(req)
	if errResp != nil {
		return *errResp
	}
	reaction, err := h.engine.React(params.Variant, params.Instance)
	if err != nil {
		return engineError(req.ID, err)
	}
	result := ReactResult{Reaction: reaction}
	if !reaction.IsIdle() {
		data, err := reaction.Transaction.CallData()
		if err != nil {
			return errResponse(req.ID, CodeInternalError, err.Error())
		}
		result.CallData = hexutil.Encode(data)
	}
	return okResponse(req.ID, result)
}

func (h *Handler) getPrettyInstance(req Request) Response {
	params, errResp := parseInstanceParams(req)
	if errResp != nil {
		return *errResp
	}
	pretty, err := h.engine.PrettyInstance(params.Variant, params.Instance)
	if err != nil {
		return engineError(req.ID, err)
	}
	return okResponse(req.ID, pretty)
}

func engineError(id any, err error) Response {
	if errors.Is(err, core.ErrInvalidIndex) {
		return errResponse(id, CodeInvalidParams, err.Error())
	}
	var de *codec.DecodeError
	if !errors.As(err, &de) {
		return errResponse(id, CodeInternalError, err.Error())
	}
	resp := errResponse(id, CodeDecodeError, err.Error())
	resp.Error.Data = DecodeErrorData{
		Variant:  de.Variant,
		Position: de.Position,
		Reason:   de.Err.Error(),
	}
	return resp
}
