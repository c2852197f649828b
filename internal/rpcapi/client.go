package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// Client wraps a grpc.ClientConn, invoking each method against the
// manually wired ServiceDesc with the JSON codec selected.
type Client struct {
	conn *grpc.ClientConn
}

func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Lookup(ctx context.Context, req *LookupRequest) (*LookupResponse, error) {
	resp := new(LookupResponse)
	if err := c.conn.Invoke(ctx, "/hybridpgm.Index/Lookup", req, resp, CallOption()); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Insert(ctx context.Context, req *InsertRequest) (*InsertResponse, error) {
	resp := new(InsertResponse)
	if err := c.conn.Invoke(ctx, "/hybridpgm.Index/Insert", req, resp, CallOption()); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) RangeSum(ctx context.Context, req *RangeSumRequest) (*RangeSumResponse, error) {
	resp := new(RangeSumResponse)
	if err := c.conn.Invoke(ctx, "/hybridpgm.Index/RangeSum", req, resp, CallOption()); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Size(ctx context.Context) (*SizeResponse, error) {
	resp := new(SizeResponse)
	if err := c.conn.Invoke(ctx, "/hybridpgm.Index/Size", &Empty{}, resp, CallOption()); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Variants(ctx context.Context) (*VariantsResponse, error) {
	resp := new(VariantsResponse)
	if err := c.conn.Invoke(ctx, "/hybridpgm.Index/Variants", &Empty{}, resp, CallOption()); err != nil {
		return nil, err
	}
	return resp, nil
}
