// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"fmt"
	"net/url"

	"github.com/juju/errors"
)

const (
	networkService    = "network"
	networkAPIVersion = "v2.0"
)

// Network is a Neutron network.
type Network struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	AdminStateUp bool     `json:"admin_state_up"`
	Shared       bool     `json:"shared"`
	External     bool     `json:"router:external"`
	MTU          int      `json:"mtu,omitempty"`
	ProjectID    string   `json:"project_id,omitempty"`
	Status       string   `json:"status,omitempty"`
	SubnetIDs    []string `json:"subnets,omitempty"`
}

// NetworkOpts carries the writable fields for creating a network.
type NetworkOpts struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	AdminStateUp bool   `json:"admin_state_up"`
	Shared       bool   `json:"shared"`
	External     bool   `json:"router:external"`
	MTU          int    `json:"mtu,omitempty"`
}

// ListNetworks returns the networks visible to the session, narrowed
// by the given query parameters.
func (s *Session) ListNetworks(params url.Values) ([]Network, error) {
	var resp struct {
		Networks []Network `json:"networks"`
	}
	if err := s.get(networkService, networkAPIVersion, "networks", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing networks")
	}
	return resp.Networks, nil
}

// GetNetwork returns one network by id.
func (s *Session) GetNetwork(id string) (Network, error) {
	var resp struct {
		Network Network `json:"network"`
	}
	err := s.get(networkService, networkAPIVersion, "networks/"+id, nil, &resp)
	return resp.Network, errors.Annotatef(err, "getting network %q", id)
}

// CreateNetwork creates a network and returns it.
func (s *Session) CreateNetwork(opts NetworkOpts) (Network, error) {
	req := struct {
		Network NetworkOpts `json:"network"`
	}{opts}
	var resp struct {
		Network Network `json:"network"`
	}
	err := s.post(networkService, networkAPIVersion, "networks", &req, &resp)
	return resp.Network, errors.Annotatef(err, "creating network %q", opts.Name)
}

// DeleteNetwork deletes a network by id.
func (s *Session) DeleteNetwork(id string) error {
	err := s.delete(networkService, networkAPIVersion, "networks/"+id)
	return errors.Annotatef(err, "deleting network %q", id)
}

// AllocationPool is a contiguous address range a subnet hands out.
type AllocationPool struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// HostRoute is a static route pushed to a subnet's ports.
type HostRoute struct {
	Destination string `json:"destination"`
	NextHop     string `json:"nexthop"`
}

// Subnet is a Neutron subnet.
type Subnet struct {
	ID              string           `json:"id,omitempty"`
	NetworkID       string           `json:"network_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	CIDR            string           `json:"cidr"`
	IPVersion       int              `json:"ip_version"`
	GatewayIP       *string          `json:"gateway_ip"`
	EnableDHCP      bool             `json:"enable_dhcp"`
	AllocationPools []AllocationPool `json:"allocation_pools,omitempty"`
	DNSNameservers  []string         `json:"dns_nameservers,omitempty"`
	HostRoutes      []HostRoute      `json:"host_routes,omitempty"`
	ProjectID       string           `json:"project_id,omitempty"`
}

// SubnetOpts carries the writable fields for creating a subnet. A nil
// GatewayIP lets Neutron pick the default; pointing it at an empty
// string would instead disable the gateway, so the field is dropped
// from the payload when nil.
type SubnetOpts struct {
	NetworkID       string           `json:"network_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	CIDR            string           `json:"cidr"`
	IPVersion       int              `json:"ip_version"`
	GatewayIP       *string          `json:"gateway_ip,omitempty"`
	EnableDHCP      bool             `json:"enable_dhcp"`
	AllocationPools []AllocationPool `json:"allocation_pools,omitempty"`
	DNSNameservers  []string         `json:"dns_nameservers,omitempty"`
	HostRoutes      []HostRoute      `json:"host_routes,omitempty"`
}

// ListSubnets returns subnets narrowed by the query parameters.
func (s *Session) ListSubnets(params url.Values) ([]Subnet, error) {
	var resp struct {
		Subnets []Subnet `json:"subnets"`
	}
	if err := s.get(networkService, networkAPIVersion, "subnets", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing subnets")
	}
	return resp.Subnets, nil
}

// GetSubnet returns one subnet by id.
func (s *Session) GetSubnet(id string) (Subnet, error) {
	var resp struct {
		Subnet Subnet `json:"subnet"`
	}
	err := s.get(networkService, networkAPIVersion, "subnets/"+id, nil, &resp)
	return resp.Subnet, errors.Annotatef(err, "getting subnet %q", id)
}

// CreateSubnet creates a subnet and returns it.
func (s *Session) CreateSubnet(opts SubnetOpts) (Subnet, error) {
	req := struct {
		Subnet SubnetOpts `json:"subnet"`
	}{opts}
	var resp struct {
		Subnet Subnet `json:"subnet"`
	}
	err := s.post(networkService, networkAPIVersion, "subnets", &req, &resp)
	return resp.Subnet, errors.Annotatef(err, "creating subnet %q", opts.Name)
}

// DeleteSubnet deletes a subnet by id.
func (s *Session) DeleteSubnet(id string) error {
	err := s.delete(networkService, networkAPIVersion, "subnets/"+id)
	return errors.Annotatef(err, "deleting subnet %q", id)
}

// ExternalGatewayInfo describes a router's uplink network.
type ExternalGatewayInfo struct {
	NetworkID  string `json:"network_id"`
	EnableSNAT *bool  `json:"enable_snat,omitempty"`
}

// Router is a Neutron router.
type Router struct {
	ID                  string               `json:"id,omitempty"`
	Name                string               `json:"name"`
	Description         string               `json:"description,omitempty"`
	AdminStateUp        bool                 `json:"admin_state_up"`
	Status              string               `json:"status,omitempty"`
	ExternalGatewayInfo *ExternalGatewayInfo `json:"external_gateway_info,omitempty"`
	ProjectID           string               `json:"project_id,omitempty"`
}

// RouterOpts carries the writable fields for creating a router.
type RouterOpts struct {
	Name                string               `json:"name"`
	Description         string               `json:"description,omitempty"`
	AdminStateUp        bool                 `json:"admin_state_up"`
	ExternalGatewayInfo *ExternalGatewayInfo `json:"external_gateway_info,omitempty"`
}

// ListRouters returns routers narrowed by the query parameters.
func (s *Session) ListRouters(params url.Values) ([]Router, error) {
	var resp struct {
		Routers []Router `json:"routers"`
	}
	if err := s.get(networkService, networkAPIVersion, "routers", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing routers")
	}
	return resp.Routers, nil
}

// GetRouter returns one router by id.
func (s *Session) GetRouter(id string) (Router, error) {
	var resp struct {
		Router Router `json:"router"`
	}
	err := s.get(networkService, networkAPIVersion, "routers/"+id, nil, &resp)
	return resp.Router, errors.Annotatef(err, "getting router %q", id)
}

// CreateRouter creates a router and returns it.
func (s *Session) CreateRouter(opts RouterOpts) (Router, error) {
	req := struct {
		Router RouterOpts `json:"router"`
	}{opts}
	var resp struct {
		Router Router `json:"router"`
	}
	err := s.post(networkService, networkAPIVersion, "routers", &req, &resp)
	return resp.Router, errors.Annotatef(err, "creating router %q", opts.Name)
}

// DeleteRouter deletes a router by id.
func (s *Session) DeleteRouter(id string) error {
	err := s.delete(networkService, networkAPIVersion, "routers/"+id)
	return errors.Annotatef(err, "deleting router %q", id)
}

// AddRouterInterface attaches a subnet to a router.
func (s *Session) AddRouterInterface(routerID, subnetID string) error {
	req := struct {
		SubnetID string `json:"subnet_id"`
	}{subnetID}
	path := fmt.Sprintf("routers/%s/add_router_interface", routerID)
	err := s.put(networkService, networkAPIVersion, path, &req, nil)
	return errors.Annotatef(err, "attaching subnet %q to router %q", subnetID, routerID)
}

// RemoveRouterInterface detaches a subnet from a router.
func (s *Session) RemoveRouterInterface(routerID, subnetID string) error {
	req := struct {
		SubnetID string `json:"subnet_id"`
	}{subnetID}
	path := fmt.Sprintf("routers/%s/remove_router_interface", routerID)
	err := s.put(networkService, networkAPIVersion, path, &req, nil)
	return errors.Annotatef(err, "detaching subnet %q from router %q", subnetID, routerID)
}

// FixedIP is an address a port holds on a subnet.
type FixedIP struct {
	SubnetID  string `json:"subnet_id"`
	IPAddress string `json:"ip_address"`
}

// Port is a Neutron port; router interface ports are how a router's
// attached subnets are discovered.
type Port struct {
	ID          string    `json:"id"`
	NetworkID   string    `json:"network_id"`
	DeviceID    string    `json:"device_id"`
	DeviceOwner string    `json:"device_owner"`
	FixedIPs    []FixedIP `json:"fixed_ips"`
}

// ListPorts returns ports narrowed by the query parameters.
func (s *Session) ListPorts(params url.Values) ([]Port, error) {
	var resp struct {
		Ports []Port `json:"ports"`
	}
	if err := s.get(networkService, networkAPIVersion, "ports", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing ports")
	}
	return resp.Ports, nil
}

// FloatingIP is a Neutron floating IP.
type FloatingIP struct {
	ID                string `json:"id,omitempty"`
	FloatingIPAddress string `json:"floating_ip_address,omitempty"`
	FloatingNetworkID string `json:"floating_network_id"`
	FixedIPAddress    string `json:"fixed_ip_address,omitempty"`
	PortID            string `json:"port_id,omitempty"`
	Description       string `json:"description,omitempty"`
	Status            string `json:"status,omitempty"`
	ProjectID         string `json:"project_id,omitempty"`
}

// FloatingIPOpts carries the writable fields for allocating a floating
// IP. FloatingIPAddress may request a specific address where the
// destination pool allows it.
type FloatingIPOpts struct {
	FloatingNetworkID string `json:"floating_network_id"`
	FloatingIPAddress string `json:"floating_ip_address,omitempty"`
	Description       string `json:"description,omitempty"`
}

// ListFloatingIPs returns floating IPs narrowed by the query
// parameters.
func (s *Session) ListFloatingIPs(params url.Values) ([]FloatingIP, error) {
	var resp struct {
		FloatingIPs []FloatingIP `json:"floatingips"`
	}
	if err := s.get(networkService, networkAPIVersion, "floatingips", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing floating ips")
	}
	return resp.FloatingIPs, nil
}

// GetFloatingIP returns one floating IP by id.
func (s *Session) GetFloatingIP(id string) (FloatingIP, error) {
	var resp struct {
		FloatingIP FloatingIP `json:"floatingip"`
	}
	err := s.get(networkService, networkAPIVersion, "floatingips/"+id, nil, &resp)
	return resp.FloatingIP, errors.Annotatef(err, "getting floating ip %q", id)
}

// CreateFloatingIP allocates a floating IP and returns it.
func (s *Session) CreateFloatingIP(opts FloatingIPOpts) (FloatingIP, error) {
	req := struct {
		FloatingIP FloatingIPOpts `json:"floatingip"`
	}{opts}
	var resp struct {
		FloatingIP FloatingIP `json:"floatingip"`
	}
	err := s.post(networkService, networkAPIVersion, "floatingips", &req, &resp)
	return resp.FloatingIP, errors.Annotate(err, "creating floating ip")
}

// DeleteFloatingIP releases a floating IP by id.
func (s *Session) DeleteFloatingIP(id string) error {
	err := s.delete(networkService, networkAPIVersion, "floatingips/"+id)
	return errors.Annotatef(err, "deleting floating ip %q", id)
}

// SecurityGroupRule is a single rule within a security group.
type SecurityGroupRule struct {
	ID              string `json:"id,omitempty"`
	SecurityGroupID string `json:"security_group_id"`
	Direction       string `json:"direction"`
	EtherType       string `json:"ethertype"`
	Protocol        string `json:"protocol,omitempty"`
	PortRangeMin    *int   `json:"port_range_min,omitempty"`
	PortRangeMax    *int   `json:"port_range_max,omitempty"`
	RemoteIPPrefix  string `json:"remote_ip_prefix,omitempty"`
	RemoteGroupID   string `json:"remote_group_id,omitempty"`
	Description     string `json:"description,omitempty"`
	ProjectID       string `json:"project_id,omitempty"`
}

// SecurityGroup is a Neutron security group with its rules.
type SecurityGroup struct {
	ID          string              `json:"id,omitempty"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Rules       []SecurityGroupRule `json:"security_group_rules,omitempty"`
	ProjectID   string              `json:"project_id,omitempty"`
}

// SecurityGroupOpts carries the writable fields for creating a
// security group.
type SecurityGroupOpts struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListSecurityGroups returns security groups narrowed by the query
// parameters.
func (s *Session) ListSecurityGroups(params url.Values) ([]SecurityGroup, error) {
	var resp struct {
		SecurityGroups []SecurityGroup `json:"security_groups"`
	}
	if err := s.get(networkService, networkAPIVersion, "security-groups", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing security groups")
	}
	return resp.SecurityGroups, nil
}

// GetSecurityGroup returns one security group by id.
func (s *Session) GetSecurityGroup(id string) (SecurityGroup, error) {
	var resp struct {
		SecurityGroup SecurityGroup `json:"security_group"`
	}
	err := s.get(networkService, networkAPIVersion, "security-groups/"+id, nil, &resp)
	return resp.SecurityGroup, errors.Annotatef(err, "getting security group %q", id)
}

// CreateSecurityGroup creates a security group and returns it. Neutron
// seeds new groups with default egress rules.
func (s *Session) CreateSecurityGroup(opts SecurityGroupOpts) (SecurityGroup, error) {
	req := struct {
		SecurityGroup SecurityGroupOpts `json:"security_group"`
	}{opts}
	var resp struct {
		SecurityGroup SecurityGroup `json:"security_group"`
	}
	err := s.post(networkService, networkAPIVersion, "security-groups", &req, &resp)
	return resp.SecurityGroup, errors.Annotatef(err, "creating security group %q", opts.Name)
}

// DeleteSecurityGroup deletes a security group by id.
func (s *Session) DeleteSecurityGroup(id string) error {
	err := s.delete(networkService, networkAPIVersion, "security-groups/"+id)
	return errors.Annotatef(err, "deleting security group %q", id)
}

// ListSecurityGroupRules returns rules narrowed by the query
// parameters.
func (s *Session) ListSecurityGroupRules(params url.Values) ([]SecurityGroupRule, error) {
	var resp struct {
		Rules []SecurityGroupRule `json:"security_group_rules"`
	}
	if err := s.get(networkService, networkAPIVersion, "security-group-rules", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing security group rules")
	}
	return resp.Rules, nil
}

// GetSecurityGroupRule returns one rule by id.
func (s *Session) GetSecurityGroupRule(id string) (SecurityGroupRule, error) {
	var resp struct {
		Rule SecurityGroupRule `json:"security_group_rule"`
	}
	err := s.get(networkService, networkAPIVersion, "security-group-rules/"+id, nil, &resp)
	return resp.Rule, errors.Annotatef(err, "getting security group rule %q", id)
}

// CreateSecurityGroupRule adds a rule to a security group.
func (s *Session) CreateSecurityGroupRule(rule SecurityGroupRule) (SecurityGroupRule, error) {
	rule.ID = ""
	req := struct {
		Rule SecurityGroupRule `json:"security_group_rule"`
	}{rule}
	var resp struct {
		Rule SecurityGroupRule `json:"security_group_rule"`
	}
	err := s.post(networkService, networkAPIVersion, "security-group-rules", &req, &resp)
	return resp.Rule, errors.Annotate(err, "creating security group rule")
}

// DeleteSecurityGroupRule deletes a rule by id.
func (s *Session) DeleteSecurityGroupRule(id string) error {
	err := s.delete(networkService, networkAPIVersion, "security-group-rules/"+id)
	return errors.Annotatef(err, "deleting security group rule %q", id)
}
