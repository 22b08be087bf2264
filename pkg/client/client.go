// SPDX-FileCopyrightText: 2023 Christoph Mewes
// SPDX-License-Identifier: MIT

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIURL     = "https://api.github.com"
	DefaultGraphQLURL = "https://api.github.com/graphql"
	DefaultTimeout    = 30 * time.Second
)

type rateLimit struct {
	Cost      int
	Remaining int
}

type Options struct {
	// APIURL is the REST endpoint, GraphQLURL the v4 endpoint. Both
	// default to github.com.
	APIURL     string
	GraphQLURL string
	// Timeout applies to every single request, there are no retries.
	Timeout time.Duration
}

type Client struct {
	ctx             context.Context
	client          *githubv4.Client
	httpClient      *http.Client
	apiURL          string
	log             logrus.FieldLogger
	requests        map[string]int
	remainingPoints int
	totalCosts      map[string]int
}

func NewClient(ctx context.Context, log logrus.FieldLogger, token string, opts Options) (*Client, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}

	if opts.GraphQLURL == "" {
		opts.GraphQLURL = DefaultGraphQLURL
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	src := oauth2.StaticTokenSource(
		&oauth2.Token{
			AccessToken: token,
		},
	)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: opts.Timeout})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = opts.Timeout

	return &Client{
		ctx:             ctx,
		client:          githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient),
		httpClient:      httpClient,
		apiURL:          strings.TrimSuffix(opts.APIURL, "/"),
		log:             log,
		requests:        map[string]int{},
		remainingPoints: 0,
		totalCosts:      map[string]int{},
	}, nil
}

func (c *Client) GetRemainingPoints() int {
	return c.remainingPoints
}

func (c *Client) GetRequestCounts() map[string]int {
	return c.requests
}

func (c *Client) GetTotalCosts() map[string]int {
	return c.totalCosts
}

func (c *Client) countRequest(owner string, name string, rateLimit rateLimit) {
	key := fmt.Sprintf("%s/%s", owner, name)

	val := c.requests[key]
	c.requests[key] = val + 1

	val = c.totalCosts[key]
	c.totalCosts[key] = val + rateLimit.Cost

	// failed GraphQL queries do not report a rate limit
	if rateLimit.Remaining > 0 {
		c.remainingPoints = rateLimit.Remaining
	}
}
