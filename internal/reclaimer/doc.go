// reclaimer releases Elastic IP addresses which are not bound to an EC2
// instance.
//
// # Overview
//
// An Elastic IP keeps billing (and counting against the regional quota) while
// it sits unassociated. The Reclaimer walks the VPC address pool of the
// client's region once per Run and releases every address whose instance ID
// is empty.
//
// # Run
//
//  1. Addresses are listed with DescribeAddresses (domain=vpc)
//  2. Each address with no instance ID is released with ReleaseAddress, one
//     at a time, in the order EC2 returned them
//  3. Successful releases are counted and logged at info level
//  4. Failed releases are logged at error level and skipped
//
// The returned Result always carries status 200 and a body of the form
// "Released N unassociated EIP(s).". A listing failure is returned as an
// error wrapping ErrAddressList. If the invocation context is cancelled
// mid-batch, Run stops and returns the context error; addresses not yet
// reached are left untouched.
//
// Released addresses go back to the AWS pool and cannot be recovered.
package reclaimer
