package reclaimer

import (
	"context"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// fakeClient is an in-memory address pool. Successful releases remove the
// address from the pool, as EC2 does.
type fakeClient struct {
	addresses   []types.Address
	describeErr error
	releaseErrs map[string]error

	describeInputs []*ec2.DescribeAddressesInput
	releaseCalls   []string

	// onRelease, if set, runs before each release is resolved.
	onRelease func(allocationID string)
}

var _ AddressClient = (*fakeClient)(nil)

func (f *fakeClient) DescribeAddresses(_ context.Context, params *ec2.DescribeAddressesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	f.describeInputs = append(f.describeInputs, params)
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &ec2.DescribeAddressesOutput{Addresses: slices.Clone(f.addresses)}, nil
}

func (f *fakeClient) ReleaseAddress(_ context.Context, params *ec2.ReleaseAddressInput, _ ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error) {
	id := aws.ToString(params.AllocationId)
	f.releaseCalls = append(f.releaseCalls, id)
	if f.onRelease != nil {
		f.onRelease(id)
	}
	if err := f.releaseErrs[id]; err != nil {
		return nil, err
	}
	f.addresses = slices.DeleteFunc(f.addresses, func(a types.Address) bool {
		return aws.ToString(a.AllocationId) == id
	})
	return &ec2.ReleaseAddressOutput{}, nil
}

func address(ip, id, instance string) types.Address {
	addr := types.Address{
		PublicIp:     aws.String(ip),
		AllocationId: aws.String(id),
		Domain:       types.DomainTypeVpc,
	}
	if instance != "" {
		addr.InstanceId = aws.String(instance)
	}
	return addr
}
