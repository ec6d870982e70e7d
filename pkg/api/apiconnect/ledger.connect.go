// Package apiconnect wires the roomies.v1.LedgerService onto Connect.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/roomies/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "roomies.v1.LedgerService"

// These constants are the fully-qualified names of the RPCs defined in this
// package. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	LedgerServiceAddRoommateProcedure = "/roomies.v1.LedgerService/AddRoommate"
	LedgerServiceAddExpenseProcedure  = "/roomies.v1.LedgerService/AddExpense"
	LedgerServiceGetLedgerProcedure   = "/roomies.v1.LedgerService/GetLedger"
	LedgerServiceScanReceiptProcedure = "/roomies.v1.LedgerService/ScanReceipt"
)

// LedgerServiceClient is a client for the roomies.v1.LedgerService service.
type LedgerServiceClient interface {
	AddRoommate(context.Context, *connect.Request[api.AddRoommateRequest]) (*connect.Response[api.AddRoommateResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	GetLedger(context.Context, *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error)
	ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error)
}

// NewLedgerServiceClient constructs a client for the roomies.v1.LedgerService
// service. The JSON codec is always used.
//
// The URL supplied here should be the base URL for the Connect server (for
// example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append(opts, WithJSON())
	return &ledgerServiceClient{
		addRoommate: connect.NewClient[api.AddRoommateRequest, api.AddRoommateResponse](
			httpClient, baseURL+LedgerServiceAddRoommateProcedure, opts...,
		),
		addExpense: connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](
			httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...,
		),
		getLedger: connect.NewClient[api.GetLedgerRequest, api.GetLedgerResponse](
			httpClient, baseURL+LedgerServiceGetLedgerProcedure, opts...,
		),
		scanReceipt: connect.NewClient[api.ScanReceiptRequest, api.ScanReceiptResponse](
			httpClient, baseURL+LedgerServiceScanReceiptProcedure, opts...,
		),
	}
}

// ledgerServiceClient implements LedgerServiceClient.
type ledgerServiceClient struct {
	addRoommate *connect.Client[api.AddRoommateRequest, api.AddRoommateResponse]
	addExpense  *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	getLedger   *connect.Client[api.GetLedgerRequest, api.GetLedgerResponse]
	scanReceipt *connect.Client[api.ScanReceiptRequest, api.ScanReceiptResponse]
}

func (c *ledgerServiceClient) AddRoommate(ctx context.Context, req *connect.Request[api.AddRoommateRequest]) (*connect.Response[api.AddRoommateResponse], error) {
	return c.addRoommate.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetLedger(ctx context.Context, req *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	return c.getLedger.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	return c.scanReceipt.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the roomies.v1.LedgerService service.
type LedgerServiceHandler interface {
	AddRoommate(context.Context, *connect.Request[api.AddRoommateRequest]) (*connect.Response[api.AddRoommateResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	GetLedger(context.Context, *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error)
	ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, WithJSON())
	addRoommate := connect.NewUnaryHandler(LedgerServiceAddRoommateProcedure, svc.AddRoommate, opts...)
	addExpense := connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...)
	getLedger := connect.NewUnaryHandler(LedgerServiceGetLedgerProcedure, svc.GetLedger, opts...)
	scanReceipt := connect.NewUnaryHandler(LedgerServiceScanReceiptProcedure, svc.ScanReceipt, opts...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceAddRoommateProcedure:
			addRoommate.ServeHTTP(w, r)
		case LedgerServiceAddExpenseProcedure:
			addExpense.ServeHTTP(w, r)
		case LedgerServiceGetLedgerProcedure:
			getLedger.ServeHTTP(w, r)
		case LedgerServiceScanReceiptProcedure:
			scanReceipt.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) AddRoommate(context.Context, *connect.Request[api.AddRoommateRequest]) (*connect.Response[api.AddRoommateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("roomies.v1.LedgerService.AddRoommate is not implemented"))
}

func (UnimplementedLedgerServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("roomies.v1.LedgerService.AddExpense is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetLedger(context.Context, *connect.Request[api.GetLedgerRequest]) (*connect.Response[api.GetLedgerResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("roomies.v1.LedgerService.GetLedger is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("roomies.v1.LedgerService.ScanReceipt is not implemented"))
}
