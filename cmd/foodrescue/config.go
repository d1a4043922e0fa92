package main

import (
	"context"
	"encoding/base64"
	"fmt"

	"foodrescue/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/gorilla/securecookie"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	// Without configured keys the cookies are still encrypted, just not
	// across restarts. Fine for a single local machine.
	if c.CookieHashKey == "" {
		c.CookieHashKey = base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
	}
	if c.CookieBlockKey == "" {
		c.CookieBlockKey = base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}
