package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// DebugCapturer captures a debug artifact for a stuck step.
type DebugCapturer interface {
	Capture(tag string)
}

// ScreenshotService captures full-page debug screenshots when the wizard
// detects a stuck or looping form. Screenshots are kept locally under the
// data dir and uploaded to S3 when AWS credentials are configured.
type ScreenshotService struct {
	drv      browser.Driver
	debugDir string

	s3Client *s3.S3
	bucket   string
}

func NewScreenshotService(drv browser.Driver, dataDir string) *ScreenshotService {
	s := &ScreenshotService{
		drv:      drv,
		debugDir: filepath.Join(dataDir, "debug"),
	}

	// S3 upload is optional; missing credentials just mean local-only.
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")
	bucket := os.Getenv("AWS_S3_BUCKET")
	if accessKey != "" && secretKey != "" && region != "" && bucket != "" {
		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(region),
			Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
		})
		if err != nil {
			utils.Log.Warnf("S3 not available for debug screenshots: %v", err)
		} else {
			s.s3Client = s3.New(sess)
			s.bucket = bucket
		}
	}
	return s
}

// Capture is best-effort: a failed screenshot never affects the attempt.
func (s *ScreenshotService) Capture(tag string) {
	if err := os.MkdirAll(s.debugDir, 0o755); err != nil {
		utils.Log.Warnf("Could not create debug dir: %v", err)
		return
	}

	filename := fmt.Sprintf("%s_%s.png", tag, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.debugDir, filename)

	if err := s.drv.Screenshot(path); err != nil {
		utils.Log.Warnf("Failed to capture debug screenshot: %v", err)
		return
	}
	utils.Log.Infof("Saved debug screenshot to %s", path)

	if s.s3Client != nil {
		if err := s.upload(path, "debug-screenshots/"+filename); err != nil {
			utils.Log.Warnf("Failed to upload screenshot to S3: %v", err)
		}
	}
}

func (s *ScreenshotService) upload(path, key string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read screenshot: %w", err)
	}

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("upload to S3: %w", err)
	}
	utils.Log.Infof("Debug screenshot uploaded to S3 with key %s", key)
	return nil
}
