package aws

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/deskforge/deskforge/internal/util/retry"
)

const passwordDataAttempts = 30

// Overridable in tests.
var passwordDataInterval = 10 * time.Second

// InitialAdminPassword retrieves and decrypts the Windows Administrator
// password EC2 generated at first boot. The password data only becomes
// available a few minutes after launch, so this polls until EC2 returns a
// non-empty blob. privateKeyPEM is the PEM-encoded RSA key of the key pair
// the instance was launched with.
func (c *Client) InitialAdminPassword(ctx context.Context, instanceID string, privateKeyPEM []byte) (string, error) {
	key, err := parseRSAPrivateKey(privateKeyPEM)
	if err != nil {
		return "", err
	}

	var encrypted string
	err = retry.PollUntil(ctx, passwordDataInterval, passwordDataAttempts, func(int) (bool, error) {
		out, err := c.ec2.GetPasswordData(ctx, &ec2.GetPasswordDataInput{
			InstanceId: aws.String(instanceID),
		})
		if err != nil {
			return false, fmt.Errorf("failed to get password data for %s: %w", instanceID, err)
		}
		encrypted = aws.ToString(out.PasswordData)
		return encrypted != "", nil
	})
	if err != nil {
		return "", fmt.Errorf("password data for %s not available: %w", instanceID, err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode password data: %w", err)
	}
	plaintext, err := rsa.DecryptPKCS1v15(rand.Reader, key, ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt password data: %w", err)
	}
	return string(plaintext), nil
}

func parseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not RSA")
	}
	return key, nil
}
