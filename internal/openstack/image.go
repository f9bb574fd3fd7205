// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package openstack

import (
	"io"
	"net/http"
	"net/url"

	goosehttp "github.com/go-goose/goose/v5/http"
	"github.com/juju/errors"
)

const (
	imageService    = "image"
	imageAPIVersion = "v2"
)

// Image is a Glance image. Unlike the Neutron payloads, Glance v2
// resources are not wrapped in an envelope object.
type Image struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name"`
	Status          string   `json:"status,omitempty"`
	Visibility      string   `json:"visibility,omitempty"`
	Protected       bool     `json:"protected"`
	DiskFormat      string   `json:"disk_format,omitempty"`
	ContainerFormat string   `json:"container_format,omitempty"`
	MinDisk         int      `json:"min_disk"`
	MinRAM          int      `json:"min_ram"`
	Size            *int64   `json:"size,omitempty"`
	Checksum        string   `json:"checksum,omitempty"`
	Owner           string   `json:"owner,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// ImageOpts carries the writable fields for registering an image. The
// image record is created empty; data is streamed separately with
// UploadImageData.
type ImageOpts struct {
	Name            string   `json:"name"`
	Visibility      string   `json:"visibility,omitempty"`
	Protected       bool     `json:"protected"`
	DiskFormat      string   `json:"disk_format"`
	ContainerFormat string   `json:"container_format"`
	MinDisk         int      `json:"min_disk"`
	MinRAM          int      `json:"min_ram"`
	Tags            []string `json:"tags,omitempty"`
}

// ListImages returns images narrowed by the query parameters.
func (s *Session) ListImages(params url.Values) ([]Image, error) {
	var resp struct {
		Images []Image `json:"images"`
	}
	if err := s.get(imageService, imageAPIVersion, "images", params, &resp); err != nil {
		return nil, errors.Annotate(err, "listing images")
	}
	return resp.Images, nil
}

// GetImage returns one image by id.
func (s *Session) GetImage(id string) (Image, error) {
	var image Image
	err := s.get(imageService, imageAPIVersion, "images/"+id, nil, &image)
	return image, errors.Annotatef(err, "getting image %q", id)
}

// CreateImage registers a new queued image and returns it.
func (s *Session) CreateImage(opts ImageOpts) (Image, error) {
	var image Image
	err := s.post(imageService, imageAPIVersion, "images", &opts, &image, http.StatusCreated)
	return image, errors.Annotatef(err, "creating image %q", opts.Name)
}

// DeleteImage deletes an image by id.
func (s *Session) DeleteImage(id string) error {
	err := s.delete(imageService, imageAPIVersion, "images/"+id)
	return errors.Annotatef(err, "deleting image %q", id)
}

// OpenImageData streams an image's data from the cloud. The caller
// owns the returned reader and must close it.
func (s *Session) OpenImageData(id string) (io.ReadCloser, error) {
	req := &goosehttp.RequestData{
		ExpectedStatus: []int{http.StatusOK},
	}
	err := s.client.SendRequest("GET", imageService, imageAPIVersion, "images/"+id+"/file", req)
	if err != nil {
		return nil, errors.Annotatef(err, "downloading image %q", id)
	}
	return req.RespReader, nil
}

// UploadImageData streams image data into a queued image. Glance
// activates the image once the upload completes.
func (s *Session) UploadImageData(id string, r io.Reader, length int64) error {
	req := &goosehttp.RequestData{
		ReqHeaders:     http.Header{"Content-Type": []string{"application/octet-stream"}},
		ReqReader:      r,
		ReqLength:      int(length),
		ExpectedStatus: []int{http.StatusNoContent},
	}
	err := s.client.SendRequest("PUT", imageService, imageAPIVersion, "images/"+id+"/file", req)
	return errors.Annotatef(err, "uploading image %q data", id)
}
