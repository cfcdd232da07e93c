package reclaimer

import (
	"context"
	"fmt"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// AddressClient is the subset of the EC2 API used to enumerate and release
// Elastic IP addresses. '*ec2.Client' satisfies it.
type AddressClient interface {
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
	ReleaseAddress(ctx context.Context, params *ec2.ReleaseAddressInput, optFns ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error)
}

var _ AddressClient = (*ec2.Client)(nil)

// Address is a point-in-time view of a single Elastic IP allocation.
type Address struct {
	// The public IPv4 address
	PublicIP string

	// The allocation ID, the "handle" used to release the address
	AllocationID string

	// The ID of the instance the address is bound to, empty if unbound
	InstanceID string
}

// Associated reports whether the address is bound to an instance.
func (a Address) Associated() bool {
	return a.InstanceID != ""
}

// domainFilterVPC limits enumeration to addresses allocated for use in a VPC.
var domainFilterVPC = types.Filter{
	Name:   aws.String("domain"),
	Values: []string{string(types.DomainTypeVpc)},
}

var ErrAddressList = fmt.Errorf("failed to list elastic IP addresses")

// elasticIPList returns a sequence over all VPC Elastic IP addresses visible
// to the client. Each range over the sequence issues a fresh
// 'DescribeAddresses' call, so the sequence can be restarted.
//
// DescribeAddresses is not paginated by EC2; the whole pool is returned by a
// single call.
func elasticIPList(ctx context.Context, client AddressClient) iter.Seq2[Address, error] {
	return func(yield func(Address, error) bool) {
		result, err := client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{
			Filters: []types.Filter{domainFilterVPC},
		})
		if err != nil {
			yield(Address{}, fmt.Errorf("%w: %w", ErrAddressList, err))
			return
		}
		for _, addr := range result.Addresses {
			if !yield(addressFrom(addr), nil) {
				return
			}
		}
	}
}

func addressFrom(addr types.Address) Address {
	return Address{
		PublicIP:     aws.ToString(addr.PublicIp),
		AllocationID: aws.ToString(addr.AllocationId),
		InstanceID:   aws.ToString(addr.InstanceId),
	}
}

var ErrAddressRelease = fmt.Errorf("failed to release elastic IP address")

func elasticIPRelease(ctx context.Context, client AddressClient, allocationID string) error {
	_, err := client.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{
		AllocationId: &allocationID,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAddressRelease, err)
	}
	return nil
}
