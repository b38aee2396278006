package controller

import (
	"errors"
)

// UploadLogo validates an uploaded file, stores it and starts decoding it
// in the background. The logo parameters reset to their defaults with the
// overlay visible, and the surface is redrawn without any overlay until the
// new image is decoded. The controller takes ownership of data.
//
// When the decode finishes, the result is discarded if the logo was removed
// or replaced in the meantime. Otherwise the decoded image is stored and the
// surface is redrawn from the state current at that moment.
func (c *Controller) UploadLogo(data []byte, mimeType string, sizeBytes int64) error {
	if sizeBytes < 0 {
		sizeBytes = int64(len(data))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ValidateLogo(mimeType, sizeBytes); err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			c.notifyLocked(KindError, "logoTooLarge")
		case errors.Is(err, ErrNotAnImage):
			c.notifyLocked(KindError, "invalidImageFile")
		}
		return err
	}
	if c.closed {
		return errors.New("controller: closed")
	}

	c.logoToken++
	asset := &logoAsset{token: c.logoToken, data: data, mimeType: mimeType}
	c.logo = asset
	c.logoParams = defaultLogoParams()
	c.logoParams.Visible = true
	c.renderLocked()
	c.notifyLocked(KindSuccess, "logoUploadSuccess")

	c.decodes.Add(1)
	go c.decodeLogo(asset)
	return nil
}

func (c *Controller) decodeLogo(asset *logoAsset) {
	defer c.decodes.Done()

	img, err := c.decode(asset.data, asset.mimeType)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.logo == nil || c.logo.token != asset.token {
		c.log.Debug("discarding stale logo decode", "token", asset.token)
		return
	}
	if err != nil {
		c.logo.err = err
		c.renderErr = err
		c.log.Warn("logo decode failed", "mime", asset.mimeType, "error", err)
		c.notifyLocked(KindError, "errorLoadingLogo")
		return
	}

	c.logo.image = img
	c.logo.data = nil
	c.renderLocked()
}

// RemoveLogo clears the uploaded logo, hides the overlay and redraws.
// In-flight decodes for the removed file are discarded on completion.
func (c *Controller) RemoveLogo() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logo = nil
	c.logoToken++
	c.logoParams.Visible = false
	c.notifyLocked(KindInfo, "logoRemoved")
	c.renderLocked()
}
