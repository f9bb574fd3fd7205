// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package glance implements the image migration handler. Images are
// the one fully migrated resource type: both the metadata and the
// image data are copied, streamed between the clouds without touching
// disk.
package glance

import (
	"context"
	"io"
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	coremigration "github.com/canonical/sunbeam-migrate/core/migration"
	"github.com/canonical/sunbeam-migrate/internal/handlers"
	"github.com/canonical/sunbeam-migrate/internal/openstack"
)

var logger = loggo.GetLogger("sunbeammigrate.handlers.glance")

const (
	serviceName = "glance"

	// FilterOwnerID selects images belonging to one project.
	FilterOwnerID = "owner-id"
	// FilterName selects images by exact name.
	FilterName = "name"
	// FilterVisibility selects images by visibility (public, private,
	// shared, community).
	FilterVisibility = "visibility"
)

// ImageAPI is the slice of the cloud session the image handler
// consumes.
type ImageAPI interface {
	ListImages(params url.Values) ([]openstack.Image, error)
	GetImage(id string) (openstack.Image, error)
	CreateImage(opts openstack.ImageOpts) (openstack.Image, error)
	DeleteImage(id string) error
	OpenImageData(id string) (io.ReadCloser, error)
	UploadImageData(id string, r io.Reader, length int64) error
}

// ImageHandler migrates Glance images.
type ImageHandler struct {
	source      ImageAPI
	destination ImageAPI
}

// NewImageHandler returns an image migration handler.
func NewImageHandler(source, destination ImageAPI) *ImageHandler {
	return &ImageHandler{source: source, destination: destination}
}

// Info is part of the Handler interface.
func (h *ImageHandler) Info() coremigration.ResourceTypeDescriptor {
	return coremigration.ResourceTypeDescriptor{
		Service:         serviceName,
		ResourceType:    "image",
		BatchFilterKeys: []string{FilterOwnerID, FilterName, FilterVisibility},
		Readiness:       coremigration.ReadinessFull,
	}
}

// ListCandidates is part of the Handler interface.
func (h *ImageHandler) ListCandidates(ctx context.Context, filter coremigration.Filter) ([]string, error) {
	if err := handlers.ValidateFilter(filter, h.Info()); err != nil {
		return nil, errors.Trace(err)
	}
	params := url.Values{}
	if owner, ok := filter[FilterOwnerID]; ok {
		params.Set("owner", owner)
	}
	if name, ok := filter[FilterName]; ok {
		params.Set("name", name)
	}
	if visibility, ok := filter[FilterVisibility]; ok {
		params.Set("visibility", visibility)
	}
	images, err := h.source.ListImages(params)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]string, len(images))
	for i, image := range images {
		ids[i] = image.ID
	}
	return ids, nil
}

// Migrate is part of the Handler interface. The destination image is
// registered first, then the data is streamed across. A failed upload
// leaves a queued image behind on the destination, which the handler
// removes before reporting the error.
func (h *ImageHandler) Migrate(ctx context.Context, sourceID string, dryRun bool) (string, error) {
	image, err := h.source.GetImage(sourceID)
	if err != nil {
		return "", errors.Trace(err)
	}
	if image.Status != "active" {
		return "", errors.Errorf("image %q is %s, only active images can be migrated",
			sourceID, image.Status)
	}
	if dryRun {
		return "", nil
	}

	created, err := h.destination.CreateImage(openstack.ImageOpts{
		Name:            image.Name,
		Visibility:      image.Visibility,
		Protected:       image.Protected,
		DiskFormat:      image.DiskFormat,
		ContainerFormat: image.ContainerFormat,
		MinDisk:         image.MinDisk,
		MinRAM:          image.MinRAM,
		Tags:            image.Tags,
	})
	if err != nil {
		return "", errors.Trace(err)
	}

	if err := h.copyImageData(image, created.ID); err != nil {
		if derr := h.destination.DeleteImage(created.ID); derr != nil {
			logger.Errorf("removing incomplete destination image %s: %v", created.ID, derr)
		}
		return "", errors.Trace(err)
	}
	return created.ID, nil
}

func (h *ImageHandler) copyImageData(image openstack.Image, destinationID string) error {
	data, err := h.source.OpenImageData(image.ID)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() { _ = data.Close() }()

	var length int64
	if image.Size != nil {
		length = *image.Size
	}
	logger.Infof("streaming image data %s -> %s (%d bytes)", image.ID, destinationID, length)
	return errors.Trace(h.destination.UploadImageData(destinationID, data, length))
}

// DeleteSource is part of the Handler interface.
func (h *ImageHandler) DeleteSource(ctx context.Context, sourceID string, dryRun bool) error {
	if dryRun {
		logger.Infof("DRY-RUN: would delete source image %s", sourceID)
		return nil
	}
	err := h.source.DeleteImage(sourceID)
	if err != nil && !openstack.IsNotFound(err) {
		return errors.Trace(err)
	}
	return nil
}
