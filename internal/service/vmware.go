package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/EpicMandM/snapshot-report/internal/config"
	"github.com/EpicMandM/snapshot-report/internal/logger"
	"github.com/EpicMandM/snapshot-report/internal/models"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/session"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"
)

// ErrConnectivity is wrapped by every failure to reach or query vCenter.
var ErrConnectivity = errors.New("vcenter connectivity error")

// VMwareService reads VM snapshot trees from a vCenter or ESXi host.
type VMwareService struct {
	client   *vim25.Client
	sessions *session.Manager
	logger   *logger.Logger
}

// NewVMwareService logs in to the endpoint named by cfg.VCenterHost, which may
// be a bare host name or a full SDK URL.
func NewVMwareService(ctx context.Context, cfg *config.Config, log *logger.Logger) (*VMwareService, error) {
	u, err := soap.ParseURL(cfg.VCenterHost)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse URL: %v", ErrConnectivity, err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: empty vCenter host", ErrConnectivity)
	}

	u.User = url.UserPassword(cfg.VCenterUsername, cfg.VCenterPassword)

	client, err := govmomi.NewClient(ctx, u, cfg.VCenterInsecure)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", ErrConnectivity, u.Host, err)
	}

	svc := newVMwareService(client.Client, log)
	svc.sessions = client.SessionManager
	return svc, nil
}

func newVMwareService(client *vim25.Client, log *logger.Logger) *VMwareService {
	if log == nil {
		log = logger.NewWithWriter(io.Discard)
	}
	return &VMwareService{client: client, logger: log}
}

// Close logs out of the session opened by NewVMwareService.
func (s *VMwareService) Close(ctx context.Context) error {
	if s == nil || s.sessions == nil {
		return nil
	}
	if err := s.sessions.Logout(ctx); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	s.sessions = nil
	return nil
}

// About returns the product name reported by the endpoint.
func (s *VMwareService) About() string {
	if s == nil || s.client == nil {
		return ""
	}
	return s.client.ServiceContent.About.FullName
}

// ListVMSnapshots returns every VM below the root folder with its snapshot
// forest, in the order the container view yields them.
func (s *VMwareService) ListVMSnapshots(ctx context.Context) (result []models.VMSnapshots, err error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("%w: service not initialized", ErrConnectivity)
	}

	m := view.NewManager(s.client)
	v, err := m.CreateContainerView(ctx, s.client.ServiceContent.RootFolder, []string{"VirtualMachine"}, true)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create container view: %v", ErrConnectivity, err)
	}
	defer func() {
		if derr := v.Destroy(ctx); derr != nil {
			s.logger.Warn("Failed to destroy container view", logger.Error(derr))
		}
	}()

	var vms []mo.VirtualMachine
	if err := v.Retrieve(ctx, []string{"VirtualMachine"}, []string{"name", "snapshot"}, &vms); err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve virtual machines: %v", ErrConnectivity, err)
	}

	result = make([]models.VMSnapshots, 0, len(vms))
	for _, vm := range vms {
		entry := models.VMSnapshots{Name: vm.Name}
		if vm.Snapshot != nil {
			entry.Forest = convertSnapshotTree(vm.Snapshot.RootSnapshotList)
		}
		result = append(result, entry)
	}
	return result, nil
}

// convertSnapshotTree copies the vSphere snapshot tree into model nodes
// without recursion. Destination slices are sized before their elements are
// queued, so queued pointers stay valid.
func convertSnapshotTree(roots []types.VirtualMachineSnapshotTree) []models.SnapshotNode {
	if len(roots) == 0 {
		return nil
	}

	type pending struct {
		src *types.VirtualMachineSnapshotTree
		dst *models.SnapshotNode
	}

	out := make([]models.SnapshotNode, len(roots))
	stack := make([]pending, 0, len(roots))
	for i := range roots {
		stack = append(stack, pending{src: &roots[i], dst: &out[i]})
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		*p.dst = models.SnapshotNode{
			Name:        p.src.Name,
			Description: p.src.Description,
			CreatedAt:   p.src.CreateTime,
			Ref:         p.src.Snapshot.Value,
		}
		if n := len(p.src.ChildSnapshotList); n > 0 {
			p.dst.Children = make([]models.SnapshotNode, n)
			for i := range p.src.ChildSnapshotList {
				stack = append(stack, pending{src: &p.src.ChildSnapshotList[i], dst: &p.dst.Children[i]})
			}
		}
	}
	return out
}
