package lib

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

var snsClient *sns.Client

func AWSGetSNSClient() *sns.Client {
	if snsClient != nil {
		return snsClient
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Failed to initialize SNS client: %s\n", err.Error())
		return nil
	}
	client := sns.NewFromConfig(cfg)
	snsClient = client
	return client
}

// SNSPublishSMS sends a direct SMS to a phone number through SNS.
func SNSPublishSMS(ctx context.Context, phone, text string) error {
	client := AWSGetSNSClient()
	_, err := client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(text),
	})
	return err
}
