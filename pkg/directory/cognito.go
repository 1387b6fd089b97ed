// pkg/directory/cognito.go

package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/attributes"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/config"
	"github.com/CodeMonkeyCybersecurity/idpuser/pkg/idp_err"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// CognitoAPI is the subset of the Cognito user pool admin API the CLI calls.
type CognitoAPI interface {
	DescribeUserPool(ctx context.Context, in *cip.DescribeUserPoolInput, optFns ...func(*cip.Options)) (*cip.DescribeUserPoolOutput, error)
	AdminCreateUser(ctx context.Context, in *cip.AdminCreateUserInput, optFns ...func(*cip.Options)) (*cip.AdminCreateUserOutput, error)
	AdminUpdateUserAttributes(ctx context.Context, in *cip.AdminUpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error)
	AdminGetUser(ctx context.Context, in *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
}

// Cognito talks to an AWS Cognito user pool.
type Cognito struct {
	api CognitoAPI
}

// NewCognito resolves the default AWS credential chain once and builds the
// single client used for every call.
func NewCognito(ctx context.Context, cfg config.CognitoConfig) (*Cognito, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, cerr.Wrap(err, "load AWS configuration")
	}

	client := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewCognitoWithAPI(client), nil
}

// NewCognitoWithAPI wraps an existing client.
func NewCognitoWithAPI(api CognitoAPI) *Cognito {
	return &Cognito{api: api}
}

func (c *Cognito) DescribeUserPool(ctx context.Context, poolID string) ([]attributes.SchemaAttribute, error) {
	out, err := c.api.DescribeUserPool(ctx, &cip.DescribeUserPoolInput{
		UserPoolId: aws.String(poolID),
	})
	if err != nil {
		return nil, classifyCognito(err, "describe user pool")
	}
	if out.UserPool == nil {
		return nil, idp_err.New(idp_err.CategoryNotFound, "describe user pool returned no pool", nil)
	}

	schema := make([]attributes.SchemaAttribute, 0, len(out.UserPool.SchemaAttributes))
	for _, attr := range out.UserPool.SchemaAttributes {
		schema = append(schema, attributes.SchemaAttribute{
			Name:    aws.ToString(attr.Name),
			Mutable: aws.ToBool(attr.Mutable),
		})
	}
	return schema, nil
}

func (c *Cognito) CreateUser(ctx context.Context, poolID, username string) (string, error) {
	out, err := c.api.AdminCreateUser(ctx, &cip.AdminCreateUserInput{
		UserPoolId: aws.String(poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return "", classifyCognito(err, "create user")
	}
	if out.User == nil {
		return "", idp_err.New(idp_err.CategoryService, "create user returned no user", nil)
	}

	if email, ok := attributes.Find(fromCognitoAttributes(out.User.Attributes), attributes.EmailAttribute); ok {
		return email, nil
	}

	fallback := aws.ToString(out.User.Username)
	if fallback == "" {
		fallback = username
	}
	otelzap.Ctx(ctx).Warn("Created user has no email attribute, using its username",
		zap.String("user_pool_id", poolID),
		zap.String("username", fallback))
	return fallback, nil
}

// UpdateUserAttributes returns the HTTP status of the response, or 0 when the
// client did not record one.
func (c *Cognito) UpdateUserAttributes(ctx context.Context, poolID, username string, attrs []attributes.Attribute) (int, error) {
	out, err := c.api.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(poolID),
		Username:       aws.String(username),
		UserAttributes: toCognitoAttributes(attrs),
	})
	if err != nil {
		return 0, classifyCognito(err, "update user attributes")
	}

	if raw, ok := awsmiddleware.GetRawResponse(out.ResultMetadata).(*smithyhttp.Response); ok && raw != nil && raw.Response != nil {
		return raw.StatusCode, nil
	}
	otelzap.Ctx(ctx).Warn("Update response carried no raw HTTP response, status unknown",
		zap.String("user_pool_id", poolID),
		zap.String("username", username))
	return 0, nil
}

func (c *Cognito) GetUser(ctx context.Context, poolID, username string) ([]attributes.Attribute, error) {
	out, err := c.api.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(poolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return nil, classifyCognito(err, "get user")
	}
	return fromCognitoAttributes(out.UserAttributes), nil
}

func toCognitoAttributes(attrs []attributes.Attribute) []types.AttributeType {
	out := make([]types.AttributeType, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, types.AttributeType{
			Name:  aws.String(attr.Name),
			Value: aws.String(attr.Value),
		})
	}
	return out
}

func fromCognitoAttributes(attrs []types.AttributeType) []attributes.Attribute {
	out := make([]attributes.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, attributes.Attribute{
			Name:  aws.ToString(attr.Name),
			Value: aws.ToString(attr.Value),
		})
	}
	return out
}

// classifyCognito maps Cognito exception codes onto error categories.
func classifyCognito(err error, operation string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return cerr.Wrap(err, operation)
	}

	category := idp_err.CategoryService
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException", "UserNotFoundException":
			category = idp_err.CategoryNotFound
		case "NotAuthorizedException", "AccessDeniedException", "UnrecognizedClientException":
			category = idp_err.CategoryAccessDenied
		case "UsernameExistsException", "AliasExistsException":
			category = idp_err.CategoryAlreadyExists
		case "InvalidParameterException", "ValidationException":
			category = idp_err.CategoryValidation
		}
	}
	return idp_err.New(category, fmt.Sprintf("%s failed", operation), err)
}
