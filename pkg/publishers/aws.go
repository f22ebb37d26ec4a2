package publishers

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// loadAWSConfig resolves the SDK config for region, using static keys from
// the named env variables when both are set.
func loadAWSConfig(ctx context.Context, region string, access AWSAccess) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if access.AccessKeyEnv != "" && access.SecretKeyEnv != "" {
		key, secret := os.Getenv(access.AccessKeyEnv), os.Getenv(access.SecretKeyEnv)
		if key == "" || secret == "" {
			return aws.Config{}, fmt.Errorf("aws credentials env %s/%s not set", access.AccessKeyEnv, access.SecretKeyEnv)
		}
		token := ""
		if access.SessionTokenEnv != "" {
			token = os.Getenv(access.SessionTokenEnv)
		}
		opts = append(opts, awscfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, token)))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
